package loadcheck

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	progressInterval     = time.Second
)

// Verification constants.
const (
	// amountEpsilon absorbs float error when comparing sums of amounts.
	amountEpsilon = 1e-6
	// DefaultTolerance matches the service default.
	DefaultTolerance = 0.01
)
