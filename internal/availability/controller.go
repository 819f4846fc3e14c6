package availability

import (
	"net/http"

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

// CreateRule handles POST /api/v1/availability/rules
func (c *Controller) CreateRule(ctx *gin.Context) {
	var req CreateRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	rule, err := c.service.CreateAvailabilityRule(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, "Failed to create availability rule", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Availability rule created successfully", rule, nil)
}

// ListRules handles GET /api/v1/availability/rules?content_id=
func (c *Controller) ListRules(ctx *gin.Context) {
	contentID, err := uuid.Parse(ctx.Query("content_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "content_id query parameter must be a valid UUID", nil, nil)
		return
	}

	rules, err := c.service.ListRules(ctx.Request.Context(), contentID)
	if err != nil {
		response.RespondError(ctx, "Failed to list availability rules", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability rules retrieved successfully", RuleListResponse{
		Rules: rules,
		Count: len(rules),
	}, nil)
}

// AddException handles POST /api/v1/availability/rules/:id/exceptions
func (c *Controller) AddException(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid rule ID", nil, nil)
		return
	}

	var req ExceptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	exception, err := c.service.AddException(ctx.Request.Context(), ruleID, req)
	if err != nil {
		response.RespondError(ctx, "Failed to save exception", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Exception saved successfully", exception, nil)
}

// RemoveException handles DELETE /api/v1/availability/rules/:id/exceptions/:date
func (c *Controller) RemoveException(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid rule ID", nil, nil)
		return
	}
	date, err := ParseDate(ctx.Param("date"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	if err := c.service.RemoveException(ctx.Request.Context(), ruleID, date); err != nil {
		response.RespondError(ctx, "Failed to remove exception", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Exception removed successfully", nil, nil)
}

// DeactivateRule handles POST /api/v1/availability/rules/:id/deactivate
func (c *Controller) DeactivateRule(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid rule ID", nil, nil)
		return
	}

	rule, err := c.service.DeactivateRule(ctx.Request.Context(), ruleID)
	if err != nil {
		response.RespondError(ctx, "Failed to deactivate rule", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability rule deactivated", rule, nil)
}

// GetAvailability handles GET /api/v1/availability/:content_id?start_date=&end_date=
func (c *Controller) GetAvailability(ctx *gin.Context) {
	contentID, err := uuid.Parse(ctx.Param("content_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid content ID", nil, nil)
		return
	}

	var query AvailabilityQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	startDate, err := ParseDate(query.StartDate)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}
	endDate, err := ParseDate(query.EndDate)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	slots, err := c.service.GetAvailability(ctx.Request.Context(), contentID, startDate, endDate)
	if err != nil {
		response.RespondError(ctx, "Failed to get availability", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", AvailabilityResponse{
		ContentID: contentID.String(),
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Slots:     slots,
		Count:     len(slots),
	}, nil)
}

// CheckSlot handles GET /api/v1/availability/:content_id/check?date=&start_time=&party_size=
func (c *Controller) CheckSlot(ctx *gin.Context) {
	contentID, err := uuid.Parse(ctx.Param("content_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid content ID", nil, nil)
		return
	}

	var query SlotCheckQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	date, err := ParseDate(query.Date)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}

	check, err := c.service.CheckSlotAvailability(ctx.Request.Context(), contentID, date, query.StartTime, query.PartySize)
	if err != nil {
		response.RespondError(ctx, "Failed to check slot availability", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Slot availability checked", check, nil)
}
