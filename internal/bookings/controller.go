package bookings

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"bookly/internal/availability"
	"bookly/internal/shared/middleware"
	"bookly/internal/shared/utils/response"
	"bookly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WaitlistNotifier admits waitlisted parties into freed capacity
type WaitlistNotifier interface {
	NotifyWaitlist(ctx context.Context, contentID uuid.UUID, date time.Time, slotTime string, availableCapacity int) (int, error)
}

type Controller struct {
	service  Service
	waitlist WaitlistNotifier
	log      *logger.Logger
}

func NewController(service Service, waitlist WaitlistNotifier, log *logger.Logger) *Controller {
	return &Controller{service: service, waitlist: waitlist, log: log}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	contentID, _ := uuid.Parse(req.ContentID)
	date, err := availability.ParseDate(req.Date)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	booking, err := c.service.CreateBookingRequest(ctx.Request.Context(), userID, contentID, CreateBookingInput{
		Date:            date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
		ContactInfo:     req.ContactInfo,
	})
	if err != nil {
		response.RespondError(ctx, "Failed to create booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking request created successfully", booking.ToResponse(), nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, ok := c.ownedBooking(ctx, bookingID, "Failed to get booking")
	if !ok {
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking.ToResponse(), nil)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req ConfirmBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if _, ok := c.ownedBooking(ctx, bookingID, "Failed to confirm booking"); !ok {
		return
	}

	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), bookingID, req.PaymentReference)
	if err != nil {
		response.RespondError(ctx, "Failed to confirm booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed successfully", booking.ToResponse(), nil)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
// With notify_waitlist the freed party size is offered to the slot's waitlist.
func (c *Controller) CancelBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	var req CancelBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if _, ok := c.ownedBooking(ctx, bookingID, "Failed to cancel booking"); !ok {
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), bookingID, req.Reason)
	if err != nil {
		response.RespondError(ctx, "Failed to cancel booking", err)
		return
	}

	result := CancelBookingResponse{Booking: booking.ToResponse()}
	if req.NotifyWaitlist && c.waitlist != nil {
		result.WaitlistTriggered = true
		notified, err := c.waitlist.NotifyWaitlist(ctx.Request.Context(), booking.ContentID, booking.Date, booking.StartTime, booking.PartySize)
		if err != nil {
			c.log.ErrorWithContext(ctx.Request.Context(), "Failed to notify waitlist after cancellation", err, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
		}
		result.WaitlistNotified = notified
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", result, nil)
}

// ownedBooking loads the booking and writes the error response unless the caller
// made it or holds an owner or admin role
func (c *Controller) ownedBooking(ctx *gin.Context, bookingID uuid.UUID, failure string) (*BookingRequest, bool) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return nil, false
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, failure, err)
		return nil, false
	}

	if booking.UserID != userID && !middleware.HasRole(ctx, middleware.RoleOwner, middleware.RoleAdmin) {
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Access denied", nil, nil)
		return nil, false
	}
	return booking, true
}

// MarkNoShow handles POST /api/v1/bookings/:id/no-show
func (c *Controller) MarkNoShow(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return
	}

	booking, err := c.service.MarkNoShow(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondError(ctx, "Failed to mark booking as no-show", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking marked as no-show", booking.ToResponse(), nil)
}

// GetUserBookings handles GET /api/v1/users/bookings?status=
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	status, ok := c.bindStatus(ctx)
	if !ok {
		return
	}

	bookings, err := c.service.GetUserBookings(ctx.Request.Context(), userID, status)
	if err != nil {
		response.RespondError(ctx, "Failed to get user bookings", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", BookingListResponse{
		Bookings: ToResponses(bookings),
		Count:    len(bookings),
	}, nil)
}

// GetContentBookings handles GET /api/v1/contents/:content_id/bookings?status=
func (c *Controller) GetContentBookings(ctx *gin.Context) {
	contentID, err := uuid.Parse(ctx.Param("content_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid content ID", nil, nil)
		return
	}

	status, ok := c.bindStatus(ctx)
	if !ok {
		return
	}

	bookings, err := c.service.GetContentBookings(ctx.Request.Context(), contentID, status)
	if err != nil {
		response.RespondError(ctx, "Failed to get content bookings", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", BookingListResponse{
		Bookings: ToResponses(bookings),
		Count:    len(bookings),
	}, nil)
}

func (c *Controller) bindStatus(ctx *gin.Context) (*Status, bool) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid status filter", nil, err.Error())
		return nil, false
	}
	if query.Status == "" {
		return nil, true
	}
	status := Status(query.Status)
	return &status, true
}
