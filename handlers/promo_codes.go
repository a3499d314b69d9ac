package handlers

import (
	"net/http"

	"sandwich-shop-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type validatePromoRequest struct {
	Code       string          `json:"code" binding:"required"`
	OrderTotal decimal.Decimal `json:"order_total"`
}

type promoCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) CreatePromoCode(c *gin.Context) {
	var req services.CreatePromoCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	promo, err := h.svc.PromoCodes.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promo code created", "promo_code": promo})
}

func (h *Handler) ListPromoCodes(c *gin.Context) {
	promos, err := h.svc.PromoCodes.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(promos), "promo_codes": promos})
}

func (h *Handler) ActivePromoCodes(c *gin.Context) {
	promos, err := h.svc.PromoCodes.ListActive(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(promos), "promo_codes": promos})
}

func (h *Handler) GetPromoCode(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	promo, err := h.svc.PromoCodes.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promo_code": promo})
}

func (h *Handler) GetPromoCodeByCode(c *gin.Context) {
	promo, err := h.svc.PromoCodes.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promo_code": promo})
}

// ValidatePromoCode is read-only; an unknown code is a normal invalid result
func (h *Handler) ValidatePromoCode(c *gin.Context) {
	var req validatePromoRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.svc.PromoCodes.Validate(c.Request.Context(), req.Code, req.OrderTotal)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) ApplyPromoCode(c *gin.Context) {
	var req promoCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	promo, err := h.svc.PromoCodes.Apply(c.Request.Context(), req.Code)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promo code applied", "promo_code": promo})
}

func (h *Handler) UpdatePromoCode(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.UpdatePromoCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	promo, err := h.svc.PromoCodes.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promo code updated", "promo_code": promo})
}

func (h *Handler) DeactivatePromoCode(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	promo, err := h.svc.PromoCodes.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promo code deactivated", "promo_code": promo})
}

func (h *Handler) DeletePromoCode(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.PromoCodes.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
