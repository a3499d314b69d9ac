package handlers

import (
	"net/http"

	"sandwich-shop-api/services"

	"github.com/gin-gonic/gin"
)

// orderScope resolves the order a request acts on. Customer routes name it by
// tracking number; staff routes use the numeric id.
func (h *Handler) orderScope(c *gin.Context) (uint, bool) {
	tracking := c.Param("tracking")
	if tracking == "" {
		return paramID(c, "id")
	}
	order, err := h.svc.Orders.GetByTracking(c.Request.Context(), tracking)
	if err != nil {
		h.respondError(c, err)
		return 0, false
	}
	return order.ID, true
}

// orderItemScope resolves a line item id; under a tracking number the item must belong to that order.
func (h *Handler) orderItemScope(c *gin.Context) (uint, bool) {
	if c.Param("tracking") == "" {
		return paramID(c, "id")
	}
	orderID, ok := h.orderScope(c)
	if !ok {
		return 0, false
	}
	itemID, ok := paramID(c, "item")
	if !ok {
		return 0, false
	}
	if _, err := h.svc.OrderDetails.GetInOrder(c.Request.Context(), orderID, itemID); err != nil {
		h.respondError(c, err)
		return 0, false
	}
	return itemID, true
}

func (h *Handler) AddOrderItem(c *gin.Context) {
	orderID, ok := h.orderScope(c)
	if !ok {
		return
	}
	var req services.AddOrderItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.OrderDetails.Add(c.Request.Context(), orderID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to order", "item": item})
}

func (h *Handler) ListOrderItems(c *gin.Context) {
	orderID, ok := h.orderScope(c)
	if !ok {
		return
	}
	items, err := h.svc.OrderDetails.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

func (h *Handler) UpdateOrderItem(c *gin.Context) {
	id, ok := h.orderItemScope(c)
	if !ok {
		return
	}
	var req services.UpdateOrderItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.svc.OrderDetails.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated", "item": item})
}

func (h *Handler) RemoveOrderItem(c *gin.Context) {
	id, ok := h.orderItemScope(c)
	if !ok {
		return
	}
	if err := h.svc.OrderDetails.Remove(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
