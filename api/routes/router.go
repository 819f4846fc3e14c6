// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"bookly/docs"
	"bookly/internal/availability"
	"bookly/internal/bookings"
	"bookly/internal/notifications"
	"bookly/internal/payments"
	"bookly/internal/recurring"
	"bookly/internal/shared/config"
	"bookly/internal/shared/database"
	"bookly/internal/shared/middleware"
	"bookly/internal/waitlist"
	"bookly/pkg/cache"
	"bookly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config        *config.Config
	db            *database.DB
	log           *logger.Logger
	notifications *notifications.Service
	jobs          *bookings.JobProcessor
}

// NewRouter creates a new router instance. notificationService may be nil, in which
// case waitlist admissions are not announced.
func NewRouter(cfg *config.Config, db *database.DB, notificationService *notifications.Service, log *logger.Logger) *Router {
	return &Router{
		config:        cfg,
		db:            db,
		log:           log,
		notifications: notificationService,
	}
}

// SetupRoutes wires every module and registers its routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs.SwaggerInfo.BasePath = r.config.GetAPIBasePath()
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	userAuth := middleware.JWTAuthWithConfig(r.config)
	ownerAuth := middleware.RequireRoles(middleware.RoleOwner, middleware.RoleAdmin)

	pg := r.db.PostgreSQL

	var cacheService cache.Service
	var locker bookings.SlotLocker
	if r.db.Redis != nil {
		cacheService = cache.NewService(r.db.Redis)
		locker = bookings.NewRedisSlotLocker(r.db.Redis, r.config.Booking.SlotLockTTL, r.config.Booking.SlotLockWait, r.log)
	} else {
		locker = bookings.NewLocalSlotLocker()
	}

	bookingRepo := bookings.NewRepository(pg)
	availabilityService := availability.NewService(availability.NewRepository(pg), bookingRepo, cacheService, r.config, r.log)
	paymentService := payments.NewService(payments.NewRepository(pg), r.log)
	bookingService := bookings.NewService(bookingRepo, availabilityService, paymentService, locker, r.log)

	var notifier waitlist.Notifier
	if r.notifications != nil {
		notifier = notifications.NewWaitlistServiceAdapter(r.notifications.Producer())
	}
	waitlistService := waitlist.NewService(waitlist.NewRepository(pg), notifier, r.log)
	recurringService := recurring.NewService(recurring.NewRepository(pg), bookingService, r.config, r.log)

	r.jobs = bookings.NewJobProcessor(bookingService, &bookings.JobConfig{
		CompletionInterval: r.config.Booking.CompletionSweepInterval,
		BatchSize:          bookings.DefaultJobConfig().BatchSize,
	}, r.log)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		availability.SetupAvailabilityRoutes(api, availability.NewController(availabilityService), userAuth, ownerAuth)
		bookings.SetupBookingRoutes(api, bookings.NewController(bookingService, waitlistService, r.log), userAuth, ownerAuth)
		recurring.SetupRecurringRoutes(api, recurring.NewController(recurringService), userAuth)
		waitlist.SetupWaitlistRoutes(api, waitlist.NewController(waitlistService), userAuth, ownerAuth)
	}
}

// StartJobs launches background jobs; call after SetupRoutes
func (r *Router) StartJobs(ctx context.Context) {
	if r.jobs != nil {
		r.jobs.Start(ctx)
	}
}

// StopJobs stops background jobs
func (r *Router) StopJobs() {
	if r.jobs != nil {
		r.jobs.Stop()
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "bookly",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "bookly",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.Server.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		status := gin.H{
			"status":      "operational",
			"api_version": r.config.Server.APIVersion,
			"redis":       r.db.Redis != nil,
			"kafka":       r.config.Kafka.Enabled,
			"timestamp":   time.Now(),
		}
		if r.jobs != nil {
			status["jobs"] = r.jobs.GetJobStatus()
		}
		c.JSON(http.StatusOK, status)
	})
}
