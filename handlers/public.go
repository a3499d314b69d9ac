package handlers

import (
	"net/http"

	"sandwich-shop-api/models"
	"sandwich-shop-api/statemachine"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "Sandwich Shop Order Management API"
	serviceVersion = "1.0.0"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the " + serviceName,
		"docs":    "/api/state-machine",
		"health":  "/health",
		"roles":   []models.StaffRole{models.RoleStaff, models.RoleAdmin},
	})
}

// GetStateMachineInfo documents the order lifecycle
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	states := gin.H{}
	for _, s := range models.OrderStatuses {
		states[string(s)] = gin.H{
			"next":     statemachine.ValidTransitionsFrom(s),
			"terminal": statemachine.IsTerminal(s),
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"initial_state":    models.StatusReceived,
		"transitions":      statemachine.GetAllTransitions(),
		"states":           states,
		"payment_statuses": models.PaymentStatuses,
	})
}
