package waitlist

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

// JoinWaitlist handles POST /api/v1/waitlist
func (c *Controller) JoinWaitlist(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req JoinWaitlistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	contentID, _ := uuid.Parse(req.ContentID)
	date, err := availability.ParseDate(req.PreferredDate)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	input := JoinInput{Date: date, Time: req.PreferredTime, PartySize: req.PartySize}
	if req.ContactInfo != nil {
		input.ContactInfo = *req.ContactInfo
	}

	entry, err := c.service.AddToWaitlist(ctx.Request.Context(), userID, contentID, input)
	if err != nil {
		response.RespondError(ctx, "Failed to join waitlist", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Joined waitlist successfully", entry.ToResponse(), nil)
}

// LeaveWaitlist handles DELETE /api/v1/waitlist?content_id=&date=&time=
func (c *Controller) LeaveWaitlist(ctx *gin.Context) {
	userID, err := middleware.GetUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var query SlotQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	contentID, _ := uuid.Parse(query.ContentID)
	date, err := availability.ParseDate(query.Date)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	if err := c.service.RemoveFromWaitlist(ctx.Request.Context(), userID, contentID, date, query.Time); err != nil {
		response.RespondError(ctx, "Failed to leave waitlist", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Left waitlist successfully", nil, nil)
}

// GetWaitlist handles GET /api/v1/waitlist/:content_id?date=&time=
func (c *Controller) GetWaitlist(ctx *gin.Context) {
	contentID, err := uuid.Parse(ctx.Param("content_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid content ID", nil, nil)
		return
	}

	var query WaitlistQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	date, err := availability.ParseDate(query.Date)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	entries, err := c.service.GetWaitlist(ctx.Request.Context(), contentID, date, query.Time)
	if err != nil {
		response.RespondError(ctx, "Failed to get waitlist", err)
		return
	}

	out := make([]WaitlistEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, entries[i].ToResponse())
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Waitlist retrieved successfully", WaitlistResponse{
		Entries: out,
		Count:   len(out),
	}, nil)
}

// NotifyWaitlist handles POST /api/v1/waitlist/notify
func (c *Controller) NotifyWaitlist(ctx *gin.Context) {
	var req NotifyWaitlistRequest
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

	notified, err := c.service.NotifyWaitlist(ctx.Request.Context(), contentID, date, req.Time, req.AvailableCapacity)
	if err != nil {
		response.RespondError(ctx, "Failed to notify waitlist", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Waitlist notified", NotifyWaitlistResponse{Notified: notified}, nil)
}
