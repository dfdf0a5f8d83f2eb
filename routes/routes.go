package routes

import (
	"food-delivery-admin-api/handlers"
	"food-delivery-admin-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, jwt *middleware.JWT) {
	handlers.RegisterValidators()

	r.GET("/health", h.Health)
	r.GET("/", h.Index)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api/auth")
	{
		public.POST("/register", jwt.OptionalAuth(), h.Register)
		public.POST("/login", h.Login)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api")
	admin.Use(jwt.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/auth/verify", h.Verify)

		customers := admin.Group("/customers")
		customers.GET("", h.ListCustomers)
		customers.POST("", h.CreateCustomer)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
		customers.POST("/:id/avatar", h.UploadCustomerAvatar)

		drivers := admin.Group("/drivers")
		drivers.GET("", h.ListDrivers)
		drivers.POST("", h.CreateDriver)
		drivers.GET("/:id", h.GetDriver)
		drivers.PUT("/:id", h.UpdateDriver)
		drivers.DELETE("/:id", h.DeleteDriver)
		drivers.POST("/:id/avatar", h.UploadDriverAvatar)

		restaurants := admin.Group("/restaurants")
		restaurants.GET("", h.ListRestaurants)
		restaurants.POST("", h.CreateRestaurant)
		restaurants.GET("/:id", h.GetRestaurant)
		restaurants.PUT("/:id", h.UpdateRestaurant)
		restaurants.DELETE("/:id", h.DeleteRestaurant)
		restaurants.PATCH("/:id/toggle-status", h.ToggleRestaurantStatus)
		restaurants.POST("/:id/image", h.UploadRestaurantImage)

		menu := admin.Group("/menu")
		menu.GET("", h.ListMenuItems)
		menu.POST("", h.CreateMenuItem)
		menu.GET("/:id", h.GetMenuItem)
		menu.PUT("/:id", h.UpdateMenuItem)
		menu.DELETE("/:id", h.DeleteMenuItem)
		menu.PATCH("/:id/toggle-availability", h.ToggleMenuItemAvailability)
		menu.POST("/:id/image", h.UploadMenuItemImage)

		orders := admin.Group("/orders")
		orders.GET("", h.ListOrders)
		orders.POST("", h.CreateOrder)
		orders.GET("/status-flow", h.GetOrderStatusFlow)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
		orders.DELETE("/:id", h.DeleteOrder)
		orders.PUT("/:id/status", h.UpdateOrderStatus)
		orders.PUT("/:id/assign-driver", h.AssignDriver)
		orders.POST("/:id/delivery", h.CreateDelivery)

		dashboard := admin.Group("/dashboard")
		dashboard.GET("/stats", h.DashboardStats)
		dashboard.GET("/chart-data", h.DashboardChartData)
		dashboard.GET("/ai-suggestions", h.DashboardSuggestions)
	}
}
