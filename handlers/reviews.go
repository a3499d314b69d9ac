package handlers

import (
	"net/http"
	"strconv"

	"sandwich-shop-api/services"

	"github.com/gin-gonic/gin"
)

type staffResponseRequest struct {
	Response string `json:"response" binding:"required"`
}

func (h *Handler) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.svc.Reviews.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Thank you for your review!", "review": review})
}

func (h *Handler) ListReviews(c *gin.Context) {
	reviews, err := h.svc.Reviews.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

func (h *Handler) GetReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	review, err := h.svc.Reviews.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

func (h *Handler) ReviewsBySandwich(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.svc.Reviews.BySandwich(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

// ReviewsByCustomer filters by ?name=
func (h *Handler) ReviewsByCustomer(c *gin.Context) {
	reviews, err := h.svc.Reviews.ByCustomer(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

func (h *Handler) RatingSummary(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	summary, err := h.svc.Reviews.RatingSummary(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// LowRatedSandwiches takes ?max_rating= (default 2)
func (h *Handler) LowRatedSandwiches(c *gin.Context) {
	maxRating := 0.0
	if raw := c.Query("max_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 1 || v > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_rating must be a number between 1 and 5"})
			return
		}
		maxRating = v
	}
	low, err := h.svc.Reviews.LowRated(c.Request.Context(), maxRating)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(low), "sandwiches": low})
}

func (h *Handler) UnansweredReviews(c *gin.Context) {
	reviews, err := h.svc.Reviews.Unanswered(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

func (h *Handler) ReviewsNeedingAttention(c *gin.Context) {
	reviews, err := h.svc.Reviews.NeedingAttention(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

func (h *Handler) RespondToReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req staffResponseRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.svc.Reviews.AddStaffResponse(c.Request.Context(), id, req.Response)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Response saved", "review": review})
}

func (h *Handler) UpdateReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.svc.Reviews.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": review})
}

func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Reviews.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
