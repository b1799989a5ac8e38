package routes

import (
	"food-ordering-api/handlers"
	"food-ordering-api/middleware"
	"food-ordering-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, jwtSecret []byte) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		public.GET("/restaurants", h.ListRestaurants)
		public.GET("/restaurants/:id", h.GetRestaurant)
		public.GET("/restaurants/:id/menu", h.GetMenu)
		public.GET("/menu/:id", h.GetMenuItem)

		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired(jwtSecret))
	{
		auth.GET("/auth/user", h.GetCurrentUser)

		auth.POST("/orders", h.PlaceOrder)
		auth.GET("/orders/:id", h.GetOrder)
		auth.GET("/users/:id/orders", h.GetUserOrders)
		auth.PATCH("/orders/:id/status", h.UpdateOrderStatus)

		auth.POST("/payment/create", h.CreatePayment)
		auth.POST("/payment/verify", h.VerifyPayment)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/orders", h.AdminListOrders)
		admin.PATCH("/orders/:id/status", h.AdminForceOrderStatus)
		admin.GET("/restaurants", h.AdminListRestaurants)
		admin.POST("/restaurants", h.AdminCreateRestaurant)
		admin.DELETE("/restaurants/:id", h.AdminDeactivateRestaurant)
		admin.POST("/menu-items", h.AdminCreateMenuItem)
		admin.PATCH("/menu-items/:id", h.AdminUpdateMenuItem)
	}
}
