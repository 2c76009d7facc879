package request

type GenerateTimeslotsRequest struct {
	StaffID          string   `json:"staffId" validate:"required,uuid"`
	From             string   `json:"from" validate:"required,datetime=2006-01-02"`
	To               string   `json:"to" validate:"required,datetime=2006-01-02"`
	DayStart         string   `json:"dayStart,omitempty" validate:"omitempty,clock"`
	DayEnd           string   `json:"dayEnd,omitempty" validate:"omitempty,clock"`
	SlotMinutes      int      `json:"slotMinutes,omitempty" validate:"omitempty,gte=5,lte=480"`
	ExcludedWeekdays []string `json:"excludedWeekdays,omitempty"`
}

type SetBlockedRequest struct {
	Blocked *bool `json:"blocked" validate:"required"`
}
