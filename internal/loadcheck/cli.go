package loadcheck

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/fairshare/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging sends log output to both stdout and logFile. If logFile is
// empty, a timestamped filename is generated. The returned function closes
// the file.
func SetupLogging(logFile string, verbose bool) (func() error, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "check_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithWriter(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return file.Close, nil
}

// ShowHelp prints usage information for the check tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Fairshare Check Tool
====================

Submits calculations to a running fairshare service concurrently and verifies
every answer: pool conservation, eligibility partition, ineligible zeroing,
transfer settlement and the absence of self-transfers.

Usage:
  go run ./cmd/fairshare-check [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -scenarios int
        Number of random calculations to submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -tolerance float
        Settlement tolerance when the service does not report one (default 0.01)
  -scenario string
        YAML scenario to submit once and print as a report
  -output string
        JSON file receiving failing scenarios
  -log string
        Log file for test output (default: check_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Random load with default settings
  go run ./cmd/fairshare-check

  # Heavier load against another address
  go run ./cmd/fairshare-check -scenarios 20000 -workers 16 -url http://localhost:8080

  # Render a single scenario
  go run ./cmd/fairshare-check -scenario scenarios/four-players.yaml
`)
}
