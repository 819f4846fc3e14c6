package availability

// AvailabilityResponse is returned by GET /availability/:content_id
type AvailabilityResponse struct {
	ContentID string        `json:"content_id"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Slots     []BookingSlot `json:"slots"`
	Count     int           `json:"count"`
}

// RuleListResponse is returned by GET /availability/rules
type RuleListResponse struct {
	Rules []AvailabilityRule `json:"rules"`
	Count int                `json:"count"`
}
