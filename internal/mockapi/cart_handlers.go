package mockapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// callerID is the user id the auth middleware extracted from the token.
func callerID(c *gin.Context) int64 {
	raw, _ := c.Get("userID")
	id, _ := raw.(int64)
	return id
}

// pathUserID parses the :userId segment and checks it against the token's
// subject. The real backend trusts the path; the mock is stricter so tests
// catch a client that mixes user ids up.
func pathUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return 0, false
	}
	if id != callerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "Cannot access another user's cart"})
		return 0, false
	}
	return id, true
}

func (s *Server) getCart(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.DB.Cart(userID))
}

func (s *Server) addToCart(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	quantity := 1
	if q := c.Query("quantity"); q != "" {
		quantity, err = strconv.Atoi(q)
		if err != nil || quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be a positive number"})
			return
		}
	}

	if err := s.DB.AddItem(userID, productID, quantity); err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		case errors.Is(err, ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
}

func (s *Server) removeCartItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid cart item id"})
		return
	}

	if err := s.DB.RemoveItem(callerID(c), itemID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

func (s *Server) purchase(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	if err := s.DB.Purchase(userID); err != nil {
		switch {
		case errors.Is(err, ErrCartEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		case errors.Is(err, ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process purchase: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Purchase successful",
		"orderId": uuid.New().String(),
	})
}
