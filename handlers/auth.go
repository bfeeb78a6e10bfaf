package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"souq-delivery-api/middleware"
	"souq-delivery-api/state"
)

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login authenticates against the fixed account set and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Auth.Login(req.Identifier, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.Tokens.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":          user.ID,
			"name":        user.Name,
			"role":        user.Role,
			"permissions": user.Permissions,
		},
	})
}

// GetProfile returns the authenticated user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	caller := middleware.Caller(c)
	user, ok := h.Auth.UserByID(caller.ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile applies a partial update to the caller's own profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	caller := middleware.Caller(c)
	var patch state.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.Auth.UpdateUser(caller.ID, patch) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	user, _ := h.Auth.UserByID(caller.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}
