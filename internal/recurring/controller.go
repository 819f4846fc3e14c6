package recurring

import (
	"net/http"

	"bookly/internal/availability"
	"bookly/internal/shared/middleware"
	"bookly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateRecurringBooking handles POST /api/v1/recurring-bookings
func (c *Controller) CreateRecurringBooking(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req CreateRecurringBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	contentID, _ := uuid.Parse(req.ContentID)
	startDate, err := availability.ParseDate(req.StartDate)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}
	endDate, err := availability.ParseDate(req.EndDate)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	frequency := req.Frequency
	if frequency == 0 {
		frequency = 1
	}

	result, err := c.service.CreateRecurringBooking(ctx.Request.Context(), userID, contentID, RecurringInput{
		Pattern:         Pattern(req.Pattern),
		StartDate:       startDate,
		EndDate:         endDate,
		TimeSlot:        req.TimeSlot,
		Frequency:       frequency,
		MaxOccurrences:  req.MaxOccurrences,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
		ContactInfo:     req.ContactInfo,
	})
	if err != nil {
		response.RespondError(ctx, "Failed to create recurring booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Recurring booking created successfully", result.ToResponse(), nil)
}

// GetRecurringBooking handles GET /api/v1/recurring-bookings/:id
func (c *Controller) GetRecurringBooking(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid recurring booking ID", nil, nil)
		return
	}

	recurring, err := c.service.GetRecurringBooking(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, "Failed to get recurring booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Recurring booking retrieved successfully", recurring.ToResponse(), nil)
}

// GetUserRecurringBookings handles GET /api/v1/users/recurring-bookings
func (c *Controller) GetUserRecurringBookings(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	list, err := c.service.GetUserRecurringBookings(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondError(ctx, "Failed to get recurring bookings", err)
		return
	}

	out := make([]RecurringBookingResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Recurring bookings retrieved successfully", RecurringListResponse{
		RecurringBookings: out,
		Count:             len(out),
	}, nil)
}
