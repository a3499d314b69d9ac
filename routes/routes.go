package routes

import (
	"sandwich-shop-api/handlers"
	"sandwich-shop-api/middleware"
	"sandwich-shop-api/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the engine with recovery, request logging, CORS and every route.
func NewRouter(h *handlers.Handler, auth *middleware.Auth, log *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS())

	r.GET("/health", h.Health)
	r.GET("/", h.Welcome)

	SetupRoutes(r, h, auth)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, auth *middleware.Auth) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/login", h.Login)
		public.GET("/state-machine", h.GetStateMachineInfo)

		// Menu
		public.GET("/sandwiches", h.ListSandwiches)
		public.GET("/sandwiches/available", h.AvailableSandwiches)
		public.GET("/sandwiches/menu", h.Menu)
		public.GET("/sandwiches/search", h.SearchSandwiches)
		public.GET("/sandwiches/categories", h.Categories)
		public.GET("/sandwiches/category/:tag", h.SandwichesByCategory)
		public.GET("/sandwiches/:id", h.GetSandwich)
		public.GET("/sandwiches/:id/details", h.SandwichDetails)
		public.GET("/sandwiches/:id/availability", h.SandwichAvailability)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api")
	{
		customer.POST("/orders", h.PlaceOrder)
		customer.GET("/orders/track/:tracking", h.TrackOrder)
		customer.GET("/orders/track/:tracking/items", h.ListOrderItems)
		customer.POST("/orders/track/:tracking/items", h.AddOrderItem)
		customer.PUT("/orders/track/:tracking/items/:item", h.UpdateOrderItem)
		customer.DELETE("/orders/track/:tracking/items/:item", h.RemoveOrderItem)
		customer.POST("/orders/track/:tracking/promo", h.ApplyOrderPromo)

		customer.POST("/promo-codes/validate", h.ValidatePromoCode)

		customer.POST("/reviews", h.CreateReview)
		customer.GET("/reviews/:id", h.GetReview)
		customer.GET("/reviews/sandwich/:id", h.ReviewsBySandwich)
		customer.GET("/reviews/sandwich/:id/summary", h.RatingSummary)
	}

	// ── Staff routes ───────────────────────────────────────────────
	staff := r.Group("/api")
	staff.Use(auth.Required(), middleware.RoleRequired(models.RoleStaff, models.RoleAdmin))
	{
		staff.GET("/profile", h.GetProfile)

		// Inventory
		staff.POST("/resources", h.CreateResource)
		staff.GET("/resources", h.ListResources)
		staff.GET("/resources/search", h.SearchResources)
		staff.GET("/resources/low-stock", h.LowStock)
		staff.GET("/resources/out-of-stock", h.OutOfStock)
		staff.GET("/resources/summary", h.InventorySummary)
		staff.GET("/resources/:id", h.GetResource)
		staff.GET("/resources/:id/check", h.CheckStock)
		staff.PUT("/resources/:id", h.UpdateResource)
		staff.PUT("/resources/:id/stock", h.UpdateStock)
		staff.POST("/resources/:id/consume", h.ConsumeStock)
		staff.POST("/resources/:id/restock", h.RestockResource)
		staff.DELETE("/resources/:id", h.DeleteResource)

		// Recipes
		staff.POST("/recipes", h.CreateRecipe)
		staff.GET("/recipes", h.ListRecipes)
		staff.GET("/recipes/sandwich/:id", h.RecipesBySandwich)
		staff.GET("/recipes/sandwich/:id/details", h.RecipeDetails)
		staff.GET("/recipes/resource/:id", h.RecipesByResource)
		staff.GET("/recipes/:id", h.GetRecipe)
		staff.PUT("/recipes/:id", h.UpdateRecipe)
		staff.DELETE("/recipes/:id", h.DeleteRecipe)

		// Menu management
		staff.POST("/sandwiches", h.CreateSandwich)
		staff.GET("/sandwiches/popular", h.PopularSandwiches)
		staff.GET("/sandwiches/unpopular", h.UnpopularSandwiches)
		staff.PUT("/sandwiches/:id", h.UpdateSandwich)
		staff.PUT("/sandwiches/:id/toggle", h.ToggleSandwich)
		staff.DELETE("/sandwiches/:id", h.DeleteSandwich)

		// Promo codes
		staff.POST("/promo-codes", h.CreatePromoCode)
		staff.GET("/promo-codes", h.ListPromoCodes)
		staff.GET("/promo-codes/active", h.ActivePromoCodes)
		staff.GET("/promo-codes/code/:code", h.GetPromoCodeByCode)
		staff.POST("/promo-codes/apply", h.ApplyPromoCode)
		staff.GET("/promo-codes/:id", h.GetPromoCode)
		staff.PUT("/promo-codes/:id", h.UpdatePromoCode)
		staff.PUT("/promo-codes/:id/deactivate", h.DeactivatePromoCode)
		staff.DELETE("/promo-codes/:id", h.DeletePromoCode)

		// Order management
		staff.GET("/orders", h.ListOrders)
		staff.GET("/orders/date-range", h.OrdersByDateRange)
		staff.GET("/orders/:id", h.GetOrder)
		staff.GET("/orders/:id/history", h.OrderHistory)
		staff.GET("/orders/:id/items", h.ListOrderItems)
		staff.POST("/orders/:id/items", h.AddOrderItem)
		staff.POST("/orders/:id/promo", h.ApplyOrderPromo)
		staff.PUT("/order-items/:id", h.UpdateOrderItem)
		staff.DELETE("/order-items/:id", h.RemoveOrderItem)
		staff.PUT("/orders/:id", h.UpdateOrder)
		staff.PUT("/orders/:id/status", h.UpdateOrderStatus)
		staff.PUT("/orders/:id/total", h.UpdateOrderTotal)
		staff.DELETE("/orders/:id", h.DeleteOrder)

		// Review management
		staff.GET("/reviews", h.ListReviews)
		staff.GET("/reviews/customer", h.ReviewsByCustomer)
		staff.GET("/reviews/low-rated", h.LowRatedSandwiches)
		staff.GET("/reviews/unanswered", h.UnansweredReviews)
		staff.GET("/reviews/attention", h.ReviewsNeedingAttention)
		staff.PUT("/reviews/:id", h.UpdateReview)
		staff.PUT("/reviews/:id/response", h.RespondToReview)
		staff.DELETE("/reviews/:id", h.DeleteReview)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(auth.Required(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.POST("/staff", h.CreateStaff)
	}
}
