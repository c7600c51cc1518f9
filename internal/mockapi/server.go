// Package mockapi is an in-memory stand-in for the food ordering backend.
// The test suite mounts it on httptest servers, and cmd/mockapi runs it on a
// local port so a frontend can be developed without the real service. It
// mirrors the external API's observable contract (paths, auth, status codes
// and error message shapes) but carries no real business logic.
package mockapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/siddharth-200231/foodapp-go/internal/auth"
)

// Server is the mock backend: a gin router over an in-memory Database.
// It implements http.Handler.
type Server struct {
	DB     *Database
	router *gin.Engine
}

// New assembles the router. Routes and their auth requirements follow the
// real backend: auth and catalog endpoints are public, everything under
// /api/cart requires a bearer token.
func New(db *Database) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{DB: db}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/auth/register", s.register)
		apiGroup.POST("/auth/login", s.login)

		apiGroup.GET("/products", s.listProducts)
		apiGroup.GET("/product/:id", s.getProduct)
		apiGroup.GET("/restaurants", s.listRestaurants)

		cart := apiGroup.Group("/cart")
		cart.Use(authMiddleware())
		{
			cart.GET("/:userId", s.getCart)
			cart.POST("/:userId/add/:productId", s.addToCart)
			cart.POST("/:userId/purchase", s.purchase)
			cart.DELETE("/item/:itemId", s.removeCartItem)
		}
	}

	s.router = router
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves the mock on addr, blocking.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// corsMiddleware lets a browser frontend on another origin talk to the mock,
// the same way the real backend is configured.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// authMiddleware validates the bearer token and stashes the caller's user id
// in the context. The 401 body deliberately says "JWT expired" so clients
// that match on the message (as the web frontend does) treat it as expiry.
func authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		userID, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "JWT expired or invalid"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
