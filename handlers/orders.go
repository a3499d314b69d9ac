package handlers

import (
	"net/http"
	"time"

	"sandwich-shop-api/middleware"
	"sandwich-shop-api/models"
	"sandwich-shop-api/services"
	"sandwich-shop-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

type updateTotalRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PlaceOrder creates an order for a walk-in or online customer (public)
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Orders.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Order placed successfully",
		"tracking_number": order.TrackingNumber,
		"order":           order,
	})
}

// ListOrders supports ?status= and ?payment_status= filters
func (h *Handler) ListOrders(c *gin.Context) {
	filter := services.OrderFilter{
		Status:        models.OrderStatus(c.Query("status")),
		PaymentStatus: models.PaymentStatus(c.Query("payment_status")),
	}
	orders, err := h.svc.Orders.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":             order,
		"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
	})
}

// TrackOrder is the customer-facing lookup by tracking number
func (h *Handler) TrackOrder(c *gin.Context) {
	order, err := h.svc.Orders.GetByTracking(c.Request.Context(), c.Param("tracking"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Orders.Update(c.Request.Context(), id, req, middleware.GetStaffID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated", "order": order})
}

// UpdateOrderStatus moves an order along received → preparing → ready → completed
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, previous, err := h.svc.Orders.UpdateStatus(c.Request.Context(), id, req.Status, middleware.GetStaffID(c), req.Note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "Order status updated",
		"order_id":          order.ID,
		"previous_status":   previous,
		"current_status":    order.Status,
		"valid_next_states": statemachine.ValidTransitionsFrom(order.Status),
	})
}

func (h *Handler) UpdateOrderTotal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateTotalRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Orders.UpdateTotal(c.Request.Context(), id, req.TotalAmount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order total updated", "order": order})
}

func (h *Handler) ApplyOrderPromo(c *gin.Context) {
	id, ok := h.orderScope(c)
	if !ok {
		return
	}
	var req promoCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.svc.Orders.ApplyPromo(c.Request.Context(), id, req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promo code applied", "order": order})
}

// OrdersByDateRange takes start_date and end_date as RFC 3339 or YYYY-MM-DD; both ends inclusive
func (h *Handler) OrdersByDateRange(c *gin.Context) {
	start, ok := parseDateParam(c, "start_date", false)
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end_date", true)
	if !ok {
		return
	}
	report, err := h.svc.Orders.ByDateRange(c.Request.Context(), start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func parseDateParam(c *gin.Context, name string, endOfDay bool) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an ISO-8601 date"})
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}

func (h *Handler) OrderHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	history, err := h.svc.Orders.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": id, "status_history": history})
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Orders.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
