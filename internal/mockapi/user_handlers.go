package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siddharth-200231/foodapp-go/internal/auth"
	"github.com/siddharth-200231/foodapp-go/internal/models"
)

// RegisterInput is the JSON we accept for sign-up. Separate from models.User
// so callers cannot smuggle in an id or a role.
type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user, err := s.DB.CreateUser(input.Username, input.Email, password.Hash)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Registration does NOT log the user in; the client performs a separate
	// login afterwards, same as against the real backend.
	c.JSON(http.StatusOK, gin.H{
		"message": "Registration successful",
		"user":    user,
	})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := s.DB.UserByEmail(input.Email)
	if user == nil {
		// Same message whether the account is missing or the password is
		// wrong, so the endpoint cannot be used to probe for accounts.
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrBadCredentials.Error()})
		return
	}

	password := models.Password{Hash: user.PasswordHash}
	ok, err := password.Matches(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify password"})
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrBadCredentials.Error()})
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}
