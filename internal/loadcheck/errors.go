package loadcheck

import "errors"

// Sentinel errors.
var (
	ErrUnhealthy       = errors.New("service unhealthy")
	ErrViolations      = errors.New("property violations found")
	ErrScenarioInvalid = errors.New("scenario invalid")
	ErrNoScenarios     = errors.New("no scenarios")
)
