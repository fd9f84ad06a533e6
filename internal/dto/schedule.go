package dto

// UpsertOverrideRequest creates or replaces the override for one date.
// Omitted open/close times fall back to the facility defaults.
type UpsertOverrideRequest struct {
	Status         string  `json:"status" validate:"required,oneof=BOOKABLE CLOSED SOLD_OUT"`
	OpenTime       *string `json:"open_time,omitempty"`
	CloseTime      *string `json:"close_time,omitempty"`
	SessionsToSell *int    `json:"sessions_to_sell,omitempty" validate:"omitempty,min=0"`
	BookedSessions *int    `json:"booked_sessions,omitempty" validate:"omitempty,min=0"`
	Note           *string `json:"note,omitempty"`
}

// DaySummaryItem is one calendar day in a schedule range response.
type DaySummaryItem struct {
	Date            string  `json:"date"`
	Status          string  `json:"status"`
	OpenTime        string  `json:"open_time"`
	CloseTime       string  `json:"close_time"`
	SlotsPerTank    int     `json:"slots_per_tank"`
	TotalSlots      int     `json:"total_slots"`
	TotalBooked     int     `json:"total_booked"`
	AvailableSlots  int     `json:"available_slots"`
	ActualCloseTime string  `json:"actual_close_time"`
	HasOverride     bool    `json:"has_override"`
	Note            *string `json:"note,omitempty"`
}

// DaySlotItem is one bookable session interval on one tank.
type DaySlotItem struct {
	TankIndex       int    `json:"tank_index"`
	SequenceNumber  int    `json:"sequence_number"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	CleaningEndTime string `json:"cleaning_end_time"`
}

// DaySlotsResponse groups a day's slots with its capacity summary.
type DaySlotsResponse struct {
	Day   DaySummaryItem `json:"day"`
	Slots []DaySlotItem  `json:"slots"`
}
