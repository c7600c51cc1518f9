package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Products())
}

func (s *Server) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	product, err := s.DB.ProductByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) listRestaurants(c *gin.Context) {
	names := s.DB.Restaurants()
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}
