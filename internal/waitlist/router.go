package waitlist

import "github.com/gin-gonic/gin"

// SetupWaitlistRoutes configures waitlist routes. Reading a queue and notifying it are
// owner operations; joining and leaving belong to the signed-in user.
func SetupWaitlistRoutes(rg *gin.RouterGroup, controller *Controller, userAuth, ownerAuth gin.HandlerFunc) {
	waitlist := rg.Group("/waitlist")
	waitlist.Use(userAuth)
	{
		waitlist.POST("", controller.JoinWaitlist)                      // POST   /api/v1/waitlist
		waitlist.DELETE("", controller.LeaveWaitlist)                   // DELETE /api/v1/waitlist?content_id=&date=&time=
		waitlist.GET("/:content_id", ownerAuth, controller.GetWaitlist) // GET    /api/v1/waitlist/:content_id?date=&time=
		waitlist.POST("/notify", ownerAuth, controller.NotifyWaitlist)  // POST   /api/v1/waitlist/notify
	}
}
