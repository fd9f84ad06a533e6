package scheduling

import "time"

// ComputeFacilitySummary composes per-tank schedules into the whole-facility
// capacity picture for one date, reconciling with a stored override when one
// exists. The returned slot list is the full set of sessions each tank can
// physically run inside the effective window; the advertised capacity numbers
// use the minimum per-tank count so no tank is oversold.
//
// When an override exists its SessionsToSell/BookedSessions are authoritative:
// an admin explicitly set that capacity and the engine does not second-guess
// it. Without an override, capacity is computed from the defaults and booked
// count is zero.
func ComputeFacilitySummary(date string, window OperatingWindow, policy SessionPolicy, resources ResourceConfig, override *DayOverride) (FacilityDaySummary, []Slot, error) {
	if err := validatePolicy(policy); err != nil {
		return FacilityDaySummary{}, nil, err
	}
	if err := validateResources(resources); err != nil {
		return FacilityDaySummary{}, nil, err
	}

	storedStatus := StatusBookable
	effective := window
	if override != nil {
		storedStatus = override.Status
		if override.OpenTime != nil {
			effective.OpenTime = *override.OpenTime
		}
		if override.CloseTime != nil {
			effective.CloseTime = *override.CloseTime
		}
	}

	if storedStatus == StatusClosed {
		// Closed days carry zero capacity regardless of stored numbers.
		return FacilityDaySummary{
			Date:            date,
			Status:          StatusClosed,
			EffectiveWindow: effective,
			ActualCloseTime: effective.CloseTime,
			HasOverride:     override != nil,
		}, []Slot{}, nil
	}

	openOffset, err := ToMinutes(effective.OpenTime)
	if err != nil {
		return FacilityDaySummary{}, nil, err
	}
	closeOffset, err := ToMinutes(effective.CloseTime)
	if err != nil {
		return FacilityDaySummary{}, nil, err
	}
	closeTarget := NormalizedClose(openOffset, closeOffset)

	allSlots := make([]Slot, 0, resources.ResourceCount)
	slotsPerResource := 0
	lastCleaning := -1
	for i := 0; i < resources.ResourceCount; i++ {
		start := openOffset + i*resources.StaggerIntervalMinutes
		slots, err := ComputeResourceSlots(i, start, closeTarget, policy)
		if err != nil {
			return FacilityDaySummary{}, nil, err
		}
		if i == 0 || len(slots) < slotsPerResource {
			slotsPerResource = len(slots)
		}
		for _, slot := range slots {
			if slot.CleaningEnd > lastCleaning {
				lastCleaning = slot.CleaningEnd
			}
		}
		allSlots = append(allSlots, slots...)
	}

	// The true close is when the last tank finishes cleaning. A day with no
	// slots falls back to the configured target.
	actualClose := closeTarget
	if lastCleaning >= 0 {
		actualClose = lastCleaning
	}

	totalSlots := slotsPerResource * resources.ResourceCount
	totalBooked := 0
	if override != nil {
		totalSlots = override.SessionsToSell
		totalBooked = override.BookedSessions
	}

	available := totalSlots - totalBooked
	if available < 0 {
		available = 0
	}

	status := storedStatus
	if status == StatusBookable && available == 0 && totalSlots > 0 {
		status = StatusSoldOut
	}

	return FacilityDaySummary{
		Date:             date,
		Status:           status,
		EffectiveWindow:  effective,
		SlotsPerResource: slotsPerResource,
		TotalSlots:       totalSlots,
		TotalBooked:      totalBooked,
		AvailableSlots:   available,
		ActualCloseTime:  FormatMinutes(actualClose),
		HasOverride:      override != nil,
	}, allSlots, nil
}

// ExpandRange produces one FacilityDaySummary per calendar day in
// [start, end), ascending, looking up overrides by exact "YYYY-MM-DD" key.
// The lookup is stable across month boundaries, so callers padding a 42-cell
// calendar grid can pass any contiguous range.
func ExpandRange(start, end time.Time, defaults DayDefaults, overridesByDate map[string]DayOverride) ([]FacilityDaySummary, error) {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	summaries := make([]FacilityDaySummary, 0)
	for day := startDay; day.Before(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format(DateLayout)
		var override *DayOverride
		if ov, ok := overridesByDate[key]; ok {
			override = &ov
		}
		summary, _, err := ComputeFacilitySummary(key, defaults.Window, defaults.Policy, defaults.Resources, override)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
