package handlers

import (
	"net/http"

	"sandwich-shop-api/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateResource(c *gin.Context) {
	var req services.CreateResourceRequest
	if !bindJSON(c, &req) {
		return
	}
	resource, err := h.svc.Resources.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resource created", "resource": resource})
}

func (h *Handler) ListResources(c *gin.Context) {
	resources, err := h.svc.Resources.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(resources), "resources": resources})
}

func (h *Handler) GetResource(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resource, err := h.svc.Resources.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": resource})
}

// SearchResources filters by ?item=
func (h *Handler) SearchResources(c *gin.Context) {
	resources, err := h.svc.Resources.SearchByName(c.Request.Context(), c.Query("item"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(resources), "resources": resources})
}

func (h *Handler) LowStock(c *gin.Context) {
	alerts, err := h.svc.Resources.LowStock(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(alerts), "alerts": alerts})
}

func (h *Handler) OutOfStock(c *gin.Context) {
	resources, err := h.svc.Resources.OutOfStock(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(resources), "resources": resources})
}

func (h *Handler) InventorySummary(c *gin.Context) {
	summary, err := h.svc.Resources.Summary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CheckStock answers whether ?required= units are on hand
func (h *Handler) CheckStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	required, ok := queryInt(c, "required", 1)
	if !ok {
		return
	}
	check, err := h.svc.Resources.CheckSufficient(c.Request.Context(), id, required)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (h *Handler) UpdateStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req amountRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.Resources.UpdateStock(c.Request.Context(), id, *req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ConsumeStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req amountRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.Resources.Consume(c.Request.Context(), id, *req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) RestockResource(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req amountRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.Resources.Restock(c.Request.Context(), id, *req.Amount)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) UpdateResource(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateResourceRequest
	if !bindJSON(c, &req) {
		return
	}
	resource, err := h.svc.Resources.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resource updated", "resource": resource})
}

func (h *Handler) DeleteResource(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Resources.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
