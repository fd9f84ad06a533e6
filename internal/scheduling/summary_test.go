package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

var (
	standardWindow    = OperatingWindow{OpenTime: "09:00", CloseTime: "21:00"}
	singleTank        = ResourceConfig{ResourceCount: 1, StaggerIntervalMinutes: 0}
	staggeredTwoTanks = ResourceConfig{ResourceCount: 2, StaggerIntervalMinutes: 30}
)

func strPtr(s string) *string { return &s }

func TestComputeFacilitySummarySingleTank(t *testing.T) {
	summary, slots, err := ComputeFacilitySummary("2025-06-01", standardWindow, standardPolicy, singleTank, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusBookable, summary.Status)
	assert.Equal(t, 8, summary.SlotsPerResource)
	assert.Equal(t, 8, summary.TotalSlots)
	assert.Equal(t, 0, summary.TotalBooked)
	assert.Equal(t, 8, summary.AvailableSlots)
	assert.Equal(t, "21:00", summary.ActualCloseTime)
	assert.False(t, summary.HasOverride)
	assert.Len(t, slots, 8)
}

func TestComputeFacilitySummaryStaggeredTanks(t *testing.T) {
	// Tank 0 runs 09:00-21:00 (8 slots), tank 1 starts 09:30 and fits 7.
	// Advertised capacity uses the minimum so tank 1 is never oversold.
	summary, slots, err := ComputeFacilitySummary("2025-06-01", standardWindow, standardPolicy, staggeredTwoTanks, nil)
	require.NoError(t, err)

	assert.Equal(t, 7, summary.SlotsPerResource)
	assert.Equal(t, 14, summary.TotalSlots)
	assert.Equal(t, 14, summary.AvailableSlots)

	perTank := map[int]int{}
	for _, slot := range slots {
		perTank[slot.ResourceIndex]++
	}
	assert.Equal(t, 8, perTank[0])
	assert.Equal(t, 7, perTank[1])

	// Tank 0's last cleaning ends 21:00, tank 1's 20:00.
	assert.Equal(t, "21:00", summary.ActualCloseTime)
}

func TestComputeFacilitySummaryActualCloseDistinctFromTarget(t *testing.T) {
	// 09:00-21:30 fits 8 cycles; the last cleaning ends 21:00, half an hour
	// before the configured close. ActualCloseTime reports the real moment.
	window := OperatingWindow{OpenTime: "09:00", CloseTime: "21:30"}
	summary, _, err := ComputeFacilitySummary("2025-06-01", window, standardPolicy, singleTank, nil)
	require.NoError(t, err)

	assert.Equal(t, 8, summary.SlotsPerResource)
	assert.Equal(t, "21:00", summary.ActualCloseTime)
	assert.Equal(t, "21:30", summary.EffectiveWindow.CloseTime)
}

func TestComputeFacilitySummaryClosedOverride(t *testing.T) {
	override := &DayOverride{
		Date:           "2025-12-25",
		Status:         StatusClosed,
		SessionsToSell: 8,
		BookedSessions: 3,
	}
	summary, slots, err := ComputeFacilitySummary("2025-12-25", standardWindow, standardPolicy, singleTank, override)
	require.NoError(t, err)

	assert.Equal(t, StatusClosed, summary.Status)
	assert.Equal(t, 0, summary.TotalSlots)
	assert.Equal(t, 0, summary.TotalBooked)
	assert.Equal(t, 0, summary.AvailableSlots)
	assert.True(t, summary.HasOverride)
	assert.Empty(t, slots)
	assert.Equal(t, "21:00", summary.ActualCloseTime)
}

func TestComputeFacilitySummaryClosedOverrideReportsOverrideClose(t *testing.T) {
	override := &DayOverride{
		Date:      "2025-12-24",
		Status:    StatusClosed,
		CloseTime: strPtr("14:00"),
	}
	summary, _, err := ComputeFacilitySummary("2025-12-24", standardWindow, standardPolicy, singleTank, override)
	require.NoError(t, err)
	assert.Equal(t, "14:00", summary.ActualCloseTime)
	assert.Equal(t, "14:00", summary.EffectiveWindow.CloseTime)
}

func TestComputeFacilitySummaryOverrideCapacityIsAuthoritative(t *testing.T) {
	// The admin stored 6 sessions to sell; the engine does not recompute it.
	override := &DayOverride{
		Date:           "2025-06-02",
		Status:         StatusBookable,
		SessionsToSell: 6,
		BookedSessions: 2,
	}
	summary, _, err := ComputeFacilitySummary("2025-06-02", standardWindow, standardPolicy, singleTank, override)
	require.NoError(t, err)

	assert.Equal(t, 6, summary.TotalSlots)
	assert.Equal(t, 2, summary.TotalBooked)
	assert.Equal(t, 4, summary.AvailableSlots)
	assert.Equal(t, StatusBookable, summary.Status)
}

func TestComputeFacilitySummaryOverrideCustomHours(t *testing.T) {
	override := &DayOverride{
		Date:           "2025-06-03",
		Status:         StatusBookable,
		OpenTime:       strPtr("12:00"),
		CloseTime:      strPtr("18:00"),
		SessionsToSell: 4,
	}
	summary, slots, err := ComputeFacilitySummary("2025-06-03", standardWindow, standardPolicy, singleTank, override)
	require.NoError(t, err)

	assert.Equal(t, OperatingWindow{OpenTime: "12:00", CloseTime: "18:00"}, summary.EffectiveWindow)
	// 360/90 = 4 physical sessions inside the shortened window.
	assert.Equal(t, 4, summary.SlotsPerResource)
	assert.Len(t, slots, 4)
	assert.Equal(t, "12:00", slots[0].StartTime())
}

func TestComputeFacilitySummaryOverbookedDayFloorsAtZero(t *testing.T) {
	override := &DayOverride{
		Date:           "2025-06-04",
		Status:         StatusBookable,
		SessionsToSell: 8,
		BookedSessions: 10,
	}
	summary, _, err := ComputeFacilitySummary("2025-06-04", standardWindow, standardPolicy, singleTank, override)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.AvailableSlots)
	assert.Equal(t, StatusSoldOut, summary.Status)
}

func TestComputeFacilitySummaryDerivesSoldOut(t *testing.T) {
	override := &DayOverride{
		Date:           "2025-06-05",
		Status:         StatusBookable,
		SessionsToSell: 8,
		BookedSessions: 8,
	}
	summary, _, err := ComputeFacilitySummary("2025-06-05", standardWindow, standardPolicy, singleTank, override)
	require.NoError(t, err)
	assert.Equal(t, StatusSoldOut, summary.Status)
}

func TestComputeFacilitySummaryZeroCapacityDayIsNotSoldOut(t *testing.T) {
	// A zero-length window is a degenerate bookable day, not a sold-out one.
	window := OperatingWindow{OpenTime: "09:00", CloseTime: "09:00"}
	summary, slots, err := ComputeFacilitySummary("2025-06-06", window, standardPolicy, singleTank, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusBookable, summary.Status)
	assert.Equal(t, 0, summary.SlotsPerResource)
	assert.Equal(t, 0, summary.TotalSlots)
	assert.Empty(t, slots)
}

func TestComputeFacilitySummaryOvernightWindow(t *testing.T) {
	// 22:00-02:00 behaves exactly like a four-hour same-day window.
	window := OperatingWindow{OpenTime: "22:00", CloseTime: "02:00"}
	summary, slots, err := ComputeFacilitySummary("2025-06-07", window, standardPolicy, singleTank, nil)
	require.NoError(t, err)

	require.Len(t, slots, 2)
	assert.Equal(t, "22:00", slots[0].StartTime())
	assert.Equal(t, "23:30", slots[1].StartTime())
	assert.Equal(t, "00:30", slots[1].EndTime())
	assert.Equal(t, "01:00", slots[1].CleaningEndTime())
	assert.Equal(t, 2, summary.TotalSlots)
	assert.Equal(t, "01:00", summary.ActualCloseTime)

	reference, refSlots, err := ComputeFacilitySummary("2025-06-07", OperatingWindow{OpenTime: "18:00", CloseTime: "22:00"}, standardPolicy, singleTank, nil)
	require.NoError(t, err)
	assert.Equal(t, reference.TotalSlots, summary.TotalSlots)
	assert.Len(t, refSlots, len(slots))
}

func TestComputeFacilitySummaryInvalidInputs(t *testing.T) {
	_, _, err := ComputeFacilitySummary("2025-06-08", standardWindow, standardPolicy, ResourceConfig{ResourceCount: 0}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidResourceConfig.Code, appErrors.FromError(err).Code)

	_, _, err = ComputeFacilitySummary("2025-06-08", standardWindow, SessionPolicy{}, singleTank, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidPolicy.Code, appErrors.FromError(err).Code)

	_, _, err = ComputeFacilitySummary("2025-06-08", OperatingWindow{OpenTime: "9am", CloseTime: "21:00"}, standardPolicy, singleTank, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTimeFormat.Code, appErrors.FromError(err).Code)
}

func TestExpandRange(t *testing.T) {
	defaults := DayDefaults{Window: standardWindow, Policy: standardPolicy, Resources: singleTank}
	overrides := map[string]DayOverride{
		"2025-12-25": {Date: "2025-12-25", Status: StatusClosed},
		"2025-12-27": {Date: "2025-12-27", Status: StatusBookable, SessionsToSell: 4, BookedSessions: 4},
	}

	start := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)
	summaries, err := ExpandRange(start, end, defaults, overrides)
	require.NoError(t, err)
	require.Len(t, summaries, 5)

	for i, summary := range summaries {
		expected := start.AddDate(0, 0, i).Format(DateLayout)
		assert.Equal(t, expected, summary.Date)
	}

	assert.Equal(t, StatusBookable, summaries[0].Status)
	assert.Equal(t, StatusClosed, summaries[1].Status)
	assert.Equal(t, 0, summaries[1].TotalSlots)
	assert.Equal(t, 8, summaries[2].TotalSlots)
	assert.Equal(t, StatusSoldOut, summaries[3].Status)
	assert.Equal(t, StatusBookable, summaries[4].Status)
}

func TestExpandRangeCrossesMonthBoundary(t *testing.T) {
	defaults := DayDefaults{Window: standardWindow, Policy: standardPolicy, Resources: singleTank}
	overrides := map[string]DayOverride{
		"2025-07-01": {Date: "2025-07-01", Status: StatusClosed},
	}

	start := time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)
	summaries, err := ExpandRange(start, end, defaults, overrides)
	require.NoError(t, err)
	require.Len(t, summaries, 4)
	assert.Equal(t, "2025-06-30", summaries[1].Date)
	assert.Equal(t, StatusClosed, summaries[2].Status)
}

func TestExpandRangeEmptyWhenEndNotAfterStart(t *testing.T) {
	defaults := DayDefaults{Window: standardWindow, Policy: standardPolicy, Resources: singleTank}
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	summaries, err := ExpandRange(day, day, defaults, nil)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
