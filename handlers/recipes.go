package handlers

import (
	"net/http"

	"sandwich-shop-api/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateRecipe(c *gin.Context) {
	var req services.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.svc.Recipes.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe created", "recipe": recipe})
}

func (h *Handler) ListRecipes(c *gin.Context) {
	recipes, err := h.svc.Recipes.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recipes), "recipes": recipes})
}

func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.svc.Recipes.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

func (h *Handler) RecipesBySandwich(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	recipes, err := h.svc.Recipes.ListBySandwich(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recipes), "recipes": recipes})
}

func (h *Handler) RecipesByResource(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	recipes, err := h.svc.Recipes.ListByResource(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(recipes), "recipes": recipes})
}

func (h *Handler) RecipeDetails(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	details, err := h.svc.Recipes.Details(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sandwich_id": id, "ingredients": details})
}

// SandwichAvailability checks stock for ?quantity= portions (default 1)
func (h *Handler) SandwichAvailability(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	qty, ok := queryInt(c, "quantity", 1)
	if !ok {
		return
	}
	report, err := h.svc.Recipes.CheckAvailability(c.Request.Context(), id, qty)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.svc.Recipes.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe updated", "recipe": recipe})
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Recipes.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
