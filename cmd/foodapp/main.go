// Command foodapp is a terminal front end for the food ordering service:
// browse and search the catalog, manage a session, fill a cart, check out.
// All state lives in the store; this file only renders it and translates
// flags into store operations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/siddharth-200231/foodapp-go/internal/api"
	"github.com/siddharth-200231/foodapp-go/internal/auth"
	"github.com/siddharth-200231/foodapp-go/internal/config"
	"github.com/siddharth-200231/foodapp-go/internal/session"
	"github.com/siddharth-200231/foodapp-go/internal/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: foodapp <command> [flags]

Commands:
  products     list the catalog (-search, -restaurant)
  show         show one product (-product)
  restaurants  list restaurant names
  signup       create an account (-username, -email, -password)
  login        start a session (-email, -password)
  logout       end the session
  whoami       show the current session
  cart         show the cart
  add          add a product to the cart (-product, -qty)
  remove       remove a cart item (-item)
  checkout     purchase the cart
`)
	os.Exit(2)
}

// app bundles what every subcommand needs.
type app struct {
	store   *store.Store
	storage session.Storage
	client  *api.Client
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
	}

	// 1. --- Environment (.env is optional) ---
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}
	cfg := config.Load()

	// 2. --- Session storage (the CLI's local storage) ---
	storage, err := session.NewFileStorage(cfg.SessionDir)
	if err != nil {
		log.Fatalf("Failed to open session storage: %v", err)
	}

	// 3. --- API client and state store ---
	client := api.New(cfg.APIURL, storage, api.WithTimeout(cfg.Timeout))
	st := store.New(client, storage)

	a := &app{store: st, storage: storage, client: client}
	ctx := context.Background()

	cmd, args := os.Args[1], os.Args[2:]
	if err := a.run(ctx, cmd, args); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "products":
		return a.products(ctx, args)
	case "show":
		return a.show(ctx, args)
	case "restaurants":
		return a.restaurants(ctx)
	case "signup":
		return a.signup(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.store.Logout()
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return a.whoami()
	case "cart":
		return a.cart(ctx)
	case "add":
		return a.add(ctx, args)
	case "remove":
		return a.remove(ctx, args)
	case "checkout":
		return a.checkout(ctx)
	default:
		usage()
		return nil
	}
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	search := fs.String("search", "", "filter by name, case-insensitive substring")
	restaurant := fs.String("restaurant", "", "filter by restaurant name or slug")
	fs.Parse(args)

	if err := a.store.RefreshCatalog(ctx); err != nil {
		return err
	}

	products := a.store.FilterProducts(*search, *restaurant)
	if len(products) == 0 {
		fmt.Println("No products found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRESTAURANT\tPRICE\tSTOCK")
	for _, p := range products {
		stock := fmt.Sprintf("%d", p.StockQuantity)
		if !p.Available {
			stock = "unavailable"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Restaurant, p.Price, stock)
	}
	return w.Flush()
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	productID := fs.Int64("product", 0, "product id")
	fs.Parse(args)

	if *productID == 0 {
		return fmt.Errorf("show requires -product")
	}

	p, err := a.client.Product(ctx, *productID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", p.Name, p.Restaurant)
	if p.Description != "" {
		fmt.Println(p.Description)
	}
	fmt.Printf("Price: %d\n", p.Price)
	if p.Available {
		fmt.Printf("In stock: %d\n", p.StockQuantity)
	} else {
		fmt.Println("Currently unavailable")
	}
	return nil
}

func (a *app) restaurants(ctx context.Context) error {
	if err := a.store.RefreshCatalog(ctx); err != nil {
		return err
	}
	for _, name := range a.store.Snapshot().Restaurants {
		fmt.Println(name)
	}
	return nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("signup requires -username, -email and -password")
	}

	if err := a.store.Signup(ctx, *username, *email, *password); err != nil {
		return err
	}
	fmt.Println("Account created. Log in with: foodapp login -email ... -password ...")
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}

	if err := a.store.Login(ctx, *email, *password); err != nil {
		return err
	}

	snap := a.store.Snapshot()
	fmt.Printf("Logged in as %s (%d items in cart).\n", snap.User.Username, len(snap.Cart))
	return nil
}

func (a *app) whoami() error {
	user := a.storage.User()
	token := a.storage.Token()
	if user == nil || token == "" {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	// The expiry shown here is informational; the server decides whether the
	// token is actually still accepted.
	if exp, err := auth.TokenExpiry(token); err == nil {
		fmt.Printf("Session expires %s\n", exp.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) cart(ctx context.Context) error {
	if err := a.store.Bootstrap(ctx); err != nil {
		return err
	}

	snap := a.store.Snapshot()
	if !snap.LoggedIn() {
		return store.ErrNotLoggedIn
	}
	if len(snap.Cart) == 0 {
		fmt.Println("Cart is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tPRICE")
	total := 0
	for _, item := range snap.Cart {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", item.ID, item.Product.Name, item.Quantity, item.Product.Price*item.Quantity)
		total += item.Product.Price * item.Quantity
	}
	fmt.Fprintf(w, "\tTOTAL\t\t%d\n", total)
	return w.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	productID := fs.Int64("product", 0, "product id")
	qty := fs.Int("qty", 1, "quantity")
	fs.Parse(args)

	if *productID == 0 {
		return fmt.Errorf("add requires -product")
	}

	if err := a.store.Bootstrap(ctx); err != nil {
		return err
	}
	if err := a.store.AddToCart(ctx, *productID, *qty); err != nil {
		return err
	}

	fmt.Printf("Added. Cart now has %d item(s).\n", len(a.store.Snapshot().Cart))
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	itemID := fs.Int64("item", 0, "cart item id")
	fs.Parse(args)

	if *itemID == 0 {
		return fmt.Errorf("remove requires -item")
	}

	if err := a.store.Bootstrap(ctx); err != nil {
		return err
	}
	if err := a.store.RemoveFromCart(ctx, *itemID); err != nil {
		return err
	}

	fmt.Printf("Removed. Cart now has %d item(s).\n", len(a.store.Snapshot().Cart))
	return nil
}

func (a *app) checkout(ctx context.Context) error {
	if err := a.store.Bootstrap(ctx); err != nil {
		return err
	}

	orderRef, err := a.store.Purchase(ctx)
	if err != nil {
		return err
	}

	if orderRef != "" {
		fmt.Printf("Order placed. Reference: %s\n", orderRef)
	} else {
		fmt.Println("Order placed.")
	}
	return nil
}
