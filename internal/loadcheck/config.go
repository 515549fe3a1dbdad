package loadcheck

import (
	"time"

	"github.com/okian/fairshare/internal/domain/types"
)

// Config holds configuration for a check run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumScenarios int           // Number of random calculations to submit
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Tolerance    float64       // Fallback settlement tolerance when /stats does not report one
	ScenarioFile string        // Optional YAML scenario to run and render instead of random load
	OutputFile   string        // Optional JSON file receiving failing scenarios
	LogFile      string        // Log file for test output
	Verbose      bool          // Enable verbose logging
}

// Outcome classifies a single submission.
type Outcome int

// Submission outcomes.
const (
	OutcomeAccepted Outcome = iota
	OutcomeRejected
	OutcomeFailed
)

// Result is one submitted scenario with the service's answer and the
// property violations found in it.
type Result struct {
	Request     types.CalculationRequest `json:"request"`
	Calculation types.Calculation        `json:"calculation"`
	Outcome     Outcome                  `json:"-"`
	Status      int                      `json:"status"`
	Message     string                   `json:"message,omitempty"`
	Violations  []string                 `json:"violations,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	ScenariosGenerated int
	Submitted          int
	Accepted           int
	Rejected           int
	Failed             int
	WithViolations     int
	ConservationFlags  int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
