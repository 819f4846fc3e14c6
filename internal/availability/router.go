package availability

import (
	"github.com/gin-gonic/gin"
)

// SetupAvailabilityRoutes configures rule management and slot lookup routes.
// ownerAuth guards the rule writes and runs in the given order.
func SetupAvailabilityRoutes(rg *gin.RouterGroup, controller *Controller, ownerAuth ...gin.HandlerFunc) {
	availability := rg.Group("/availability")
	{
		// Public slot lookups
		availability.GET("/:content_id", controller.GetAvailability) // GET /api/v1/availability/:content_id
		availability.GET("/:content_id/check", controller.CheckSlot) // GET /api/v1/availability/:content_id/check
		availability.GET("/rules", controller.ListRules)             // GET /api/v1/availability/rules?content_id=

		// Rule management
		rules := availability.Group("/rules")
		rules.Use(ownerAuth...)
		{
			rules.POST("", controller.CreateRule)                             // POST   /api/v1/availability/rules
			rules.POST("/:id/exceptions", controller.AddException)            // POST   /api/v1/availability/rules/:id/exceptions
			rules.DELETE("/:id/exceptions/:date", controller.RemoveException) // DELETE /api/v1/availability/rules/:id/exceptions/:date
			rules.POST("/:id/deactivate", controller.DeactivateRule)          // POST   /api/v1/availability/rules/:id/deactivate
		}
	}
}
