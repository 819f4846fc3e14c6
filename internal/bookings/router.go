package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes.
// userAuth identifies the caller; ownerAuth additionally requires a resource owner.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, userAuth, ownerAuth gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	bookings.Use(userAuth)
	{
		bookings.POST("", controller.CreateBooking)                     // POST /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)                     // GET  /api/v1/bookings/:id
		bookings.POST("/:id/confirm", controller.ConfirmBooking)        // POST /api/v1/bookings/:id/confirm
		bookings.POST("/:id/cancel", controller.CancelBooking)          // POST /api/v1/bookings/:id/cancel
		bookings.POST("/:id/no-show", ownerAuth, controller.MarkNoShow) // POST /api/v1/bookings/:id/no-show
	}

	users := rg.Group("/users")
	users.Use(userAuth)
	{
		users.GET("/bookings", controller.GetUserBookings) // GET /api/v1/users/bookings?status=
	}

	contents := rg.Group("/contents")
	contents.Use(userAuth, ownerAuth)
	{
		contents.GET("/:content_id/bookings", controller.GetContentBookings) // GET /api/v1/contents/:content_id/bookings?status=
	}
}

// Key flow:
// 1. Client lists slots with GET /availability/:content_id
// 2. Client requests a booking with POST /bookings; capacity is reserved atomically and a
//    pending transaction is opened
// 3. Payment completes; client confirms with POST /bookings/:id/confirm {"payment_reference": "..."}
// 4. Cancelling with {"notify_waitlist": true} offers the freed places to the slot's waitlist
// 5. Confirmed bookings become completed once the slot has ended
