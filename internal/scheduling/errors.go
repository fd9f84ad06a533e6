package scheduling

import (
	"fmt"

	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

func errInvalidPolicy(policy SessionPolicy) error {
	return appErrors.Clone(appErrors.ErrInvalidPolicy,
		fmt.Sprintf("invalid session policy: duration=%dm buffer=%dm", policy.SessionDurationMinutes, policy.CleaningBufferMinutes))
}

func errInvalidResources(resources ResourceConfig) error {
	return appErrors.Clone(appErrors.ErrInvalidResourceConfig,
		fmt.Sprintf("invalid tank config: count=%d stagger=%dm", resources.ResourceCount, resources.StaggerIntervalMinutes))
}
