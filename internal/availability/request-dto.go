package availability

// CreateRuleRequest represents the request to create an availability rule
type CreateRuleRequest struct {
	ContentID   string             `json:"content_id" binding:"required,uuid"`
	DayOfWeek   *int               `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime   string             `json:"start_time" binding:"required,hhmm"`
	EndTime     string             `json:"end_time" binding:"required,hhmm"`
	MaxCapacity *int               `json:"max_capacity" binding:"required,min=0"`
	Price       float64            `json:"price" binding:"min=0"`
	Currency    string             `json:"currency" binding:"omitempty,len=3"`
	Exceptions  []ExceptionRequest `json:"exceptions" binding:"omitempty,dive"`
}

// ExceptionRequest overrides a rule on one date
type ExceptionRequest struct {
	Date           string   `json:"date" binding:"required,isodate"`
	IsAvailable    *bool    `json:"is_available" binding:"required"`
	CustomPrice    *float64 `json:"custom_price" binding:"omitempty,min=0"`
	CustomCapacity *int     `json:"custom_capacity" binding:"omitempty,min=0"`
}

// AvailabilityQuery represents query parameters for GET /availability/:content_id
type AvailabilityQuery struct {
	StartDate string `form:"start_date" binding:"required,isodate"`
	EndDate   string `form:"end_date" binding:"required,isodate"`
}

// SlotCheckQuery represents query parameters for the capacity check
type SlotCheckQuery struct {
	Date      string `form:"date" binding:"required,isodate"`
	StartTime string `form:"start_time" binding:"required,hhmm"`
	PartySize int    `form:"party_size" binding:"required,min=1"`
}
