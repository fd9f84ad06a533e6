// Package scheduling computes bookable float-session slots from facility
// operating hours, session policy and tank configuration. It is pure: every
// function is a deterministic computation over its inputs, with no I/O, so
// callers may invoke it concurrently without coordination.
package scheduling

import "fmt"

// DateLayout is the calendar-date key format used for override lookups.
const DateLayout = "2006-01-02"

// DayStatus classifies a calendar day for booking purposes.
type DayStatus string

const (
	StatusBookable DayStatus = "BOOKABLE"
	StatusClosed   DayStatus = "CLOSED"
	StatusSoldOut  DayStatus = "SOLD_OUT"
)

// OperatingWindow is the facility's active interval for one calendar day,
// expressed as wall-clock "HH:MM" strings. A close time numerically before the
// open time means the window crosses midnight.
type OperatingWindow struct {
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// SessionPolicy fixes the duration of one float session and the cleaning
// turnover that follows it.
type SessionPolicy struct {
	SessionDurationMinutes int `json:"session_duration_minutes"`
	CleaningBufferMinutes  int `json:"cleaning_buffer_minutes"`
}

// CycleMinutes is the quantum by which consecutive slot starts advance on a
// single tank: session duration plus cleaning buffer.
func (p SessionPolicy) CycleMinutes() int {
	return p.SessionDurationMinutes + p.CleaningBufferMinutes
}

// ResourceConfig describes the physical tanks. StaggerIntervalMinutes offsets
// each tank's first session so tanks do not all need cleaning at once.
type ResourceConfig struct {
	ResourceCount          int `json:"resource_count"`
	StaggerIntervalMinutes int `json:"stagger_interval_minutes"`
}

// Slot is one bookable session interval on one tank, including its trailing
// cleaning buffer. All offsets are minutes since local midnight; an overnight
// window produces offsets past 1439.
type Slot struct {
	ResourceIndex  int `json:"resource_index"`
	SequenceNumber int `json:"sequence_number"`
	SessionStart   int `json:"session_start"`
	SessionEnd     int `json:"session_end"`
	CleaningEnd    int `json:"cleaning_end"`
}

// StartTime returns the slot's session start as "HH:MM".
func (s Slot) StartTime() string { return FormatMinutes(s.SessionStart) }

// EndTime returns the slot's session end as "HH:MM".
func (s Slot) EndTime() string { return FormatMinutes(s.SessionEnd) }

// CleaningEndTime returns the end of the cleaning buffer as "HH:MM".
func (s Slot) CleaningEndTime() string { return FormatMinutes(s.CleaningEnd) }

func (s Slot) String() string {
	return fmt.Sprintf("tank %d slot %d %s-%s", s.ResourceIndex, s.SequenceNumber, s.StartTime(), s.EndTime())
}

// DayOverride is an admin-set exception for one calendar date. When present it
// supersedes the default window and is authoritative for capacity numbers.
type DayOverride struct {
	Date           string    `json:"date"`
	Status         DayStatus `json:"status"`
	OpenTime       *string   `json:"open_time,omitempty"`
	CloseTime      *string   `json:"close_time,omitempty"`
	SessionsToSell int       `json:"sessions_to_sell"`
	BookedSessions int       `json:"booked_sessions"`
}

// DayDefaults bundles the facility-wide settings applied to any date without a
// stored override.
type DayDefaults struct {
	Window    OperatingWindow
	Policy    SessionPolicy
	Resources ResourceConfig
}

// FacilityDaySummary is the whole-facility capacity picture for one date.
// Status is the effective display status: a bookable day with zero remaining
// availability presents as SOLD_OUT without being persisted as such.
// ActualCloseTime is when the last tank finishes cleaning, which may run past
// the configured close time.
type FacilityDaySummary struct {
	Date             string          `json:"date"`
	Status           DayStatus       `json:"status"`
	EffectiveWindow  OperatingWindow `json:"effective_window"`
	SlotsPerResource int             `json:"slots_per_resource"`
	TotalSlots       int             `json:"total_slots"`
	TotalBooked      int             `json:"total_booked"`
	AvailableSlots   int             `json:"available_slots"`
	ActualCloseTime  string          `json:"actual_close_time"`
	HasOverride      bool            `json:"has_override"`
}
