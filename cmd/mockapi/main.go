package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/siddharth-200231/foodapp-go/internal/mockapi"
)

func main() {
	addr := flag.String("addr", ":8080", "address to serve the mock API on")
	seed := flag.Bool("seed", true, "seed the catalog with demo products")
	flag.Parse()

	// .env is optional; it can carry FOODAPP_JWT_SECRET for shared sessions.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system environment variables.")
	}

	db := mockapi.NewDatabase()
	if *seed {
		db.SeedProducts(mockapi.DemoProducts()...)
		log.Printf("Seeded %d demo products", len(mockapi.DemoProducts()))
	}

	srv := mockapi.New(db)
	log.Printf("Mock food API listening on %s", *addr)
	if err := srv.Run(*addr); err != nil {
		log.Fatalf("Failed to start mock API: %v", err)
	}
}
