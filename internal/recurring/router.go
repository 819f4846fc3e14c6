package recurring

import "github.com/gin-gonic/gin"

// SetupRecurringRoutes configures recurring booking routes; every route needs a signed-in user
func SetupRecurringRoutes(rg *gin.RouterGroup, controller *Controller, userAuth gin.HandlerFunc) {
	recurring := rg.Group("/recurring-bookings")
	recurring.Use(userAuth)
	{
		recurring.POST("", controller.CreateRecurringBooking) // POST /api/v1/recurring-bookings
		recurring.GET("/:id", controller.GetRecurringBooking) // GET  /api/v1/recurring-bookings/:id
	}

	rg.GET("/users/recurring-bookings", userAuth, controller.GetUserRecurringBookings) // GET /api/v1/users/recurring-bookings
}
