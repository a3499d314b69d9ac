package handlers

import (
	"net/http"

	"sandwich-shop-api/apperr"
	"sandwich-shop-api/middleware"
	"sandwich-shop-api/models"
	"sandwich-shop-api/services"

	"github.com/gin-gonic/gin"
)

func staffView(user *models.StaffUser) gin.H {
	return gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	}
}

// Login authenticates a staff member and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Staff.Authenticate(c.Request.Context(), req)
	if err != nil {
		if apperr.IsBusinessRule(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err)
		return
	}
	token, err := h.auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    staffView(user),
	})
}

// GetProfile returns the authenticated staff member
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.svc.Staff.Get(c.Request.Context(), middleware.GetStaffID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": staffView(user)})
}

// CreateStaff registers a new back-office account (admin only)
func (h *Handler) CreateStaff(c *gin.Context) {
	var req services.CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.svc.Staff.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff account created", "user": staffView(user)})
}
