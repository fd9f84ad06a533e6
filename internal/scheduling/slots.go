package scheduling

// ComputeResourceSlots generates the ordered session slots for a single tank.
// resourceStart is the tank's own first-session offset (facility open plus the
// tank's stagger), closeTarget the normalized close offset. Only sessions that
// end at or before closeTarget are emitted; the floor division guarantees no
// truncated sessions. Consecutive slots are back to back: slot n+1 starts
// exactly at slot n's cleaning end. A window too short for a single cycle
// yields an empty list, not an error.
func ComputeResourceSlots(resourceIndex, resourceStart, closeTarget int, policy SessionPolicy) ([]Slot, error) {
	if err := validatePolicy(policy); err != nil {
		return nil, err
	}

	if closeTarget <= resourceStart {
		return []Slot{}, nil
	}

	cycle := policy.CycleMinutes()
	count := (closeTarget - resourceStart) / cycle

	slots := make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		start := resourceStart + i*cycle
		end := start + policy.SessionDurationMinutes
		slots = append(slots, Slot{
			ResourceIndex:  resourceIndex,
			SequenceNumber: i + 1,
			SessionStart:   start,
			SessionEnd:     end,
			CleaningEnd:    end + policy.CleaningBufferMinutes,
		})
	}
	return slots, nil
}

func validatePolicy(policy SessionPolicy) error {
	if policy.SessionDurationMinutes <= 0 || policy.CleaningBufferMinutes < 0 || policy.CycleMinutes() <= 0 {
		return errInvalidPolicy(policy)
	}
	return nil
}

func validateResources(resources ResourceConfig) error {
	if resources.ResourceCount < 1 || resources.StaggerIntervalMinutes < 0 {
		return errInvalidResources(resources)
	}
	return nil
}
