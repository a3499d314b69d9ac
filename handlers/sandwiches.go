package handlers

import (
	"net/http"

	"sandwich-shop-api/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateSandwich(c *gin.Context) {
	var req services.CreateSandwichRequest
	if !bindJSON(c, &req) {
		return
	}
	sandwich, err := h.svc.Sandwiches.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sandwich created", "sandwich": sandwich})
}

func (h *Handler) ListSandwiches(c *gin.Context) {
	sandwiches, err := h.svc.Sandwiches.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sandwiches), "sandwiches": sandwiches})
}

func (h *Handler) AvailableSandwiches(c *gin.Context) {
	sandwiches, err := h.svc.Sandwiches.ListAvailable(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sandwiches), "sandwiches": sandwiches})
}

// Menu lists available sandwiches with ratings (public)
func (h *Handler) Menu(c *gin.Context) {
	menu, err := h.svc.Sandwiches.MenuWithRatings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(menu), "menu": menu})
}

// SearchSandwiches filters available sandwiches by ?name=
func (h *Handler) SearchSandwiches(c *gin.Context) {
	sandwiches, err := h.svc.Sandwiches.SearchByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sandwiches), "sandwiches": sandwiches})
}

func (h *Handler) SandwichesByCategory(c *gin.Context) {
	tag := c.Param("tag")
	sandwiches, err := h.svc.Sandwiches.SearchByCategory(c.Request.Context(), tag)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": tag, "count": len(sandwiches), "sandwiches": sandwiches})
}

func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.svc.Sandwiches.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) GetSandwich(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sandwich, err := h.svc.Sandwiches.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sandwich": sandwich})
}

func (h *Handler) SandwichDetails(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	details, err := h.svc.Sandwiches.Details(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// PopularSandwiches ranks best sellers; ?limit= defaults to 10
func (h *Handler) PopularSandwiches(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}
	popular, err := h.svc.Sandwiches.Popular(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(popular), "sandwiches": popular})
}

func (h *Handler) UnpopularSandwiches(c *gin.Context) {
	unpopular, err := h.svc.Sandwiches.Unpopular(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(unpopular), "sandwiches": unpopular})
}

func (h *Handler) UpdateSandwich(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateSandwichRequest
	if !bindJSON(c, &req) {
		return
	}
	sandwich, err := h.svc.Sandwiches.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sandwich updated", "sandwich": sandwich})
}

func (h *Handler) ToggleSandwich(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sandwich, msg, err := h.svc.Sandwiches.ToggleAvailability(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "sandwich": sandwich})
}

func (h *Handler) DeleteSandwich(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Sandwiches.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
