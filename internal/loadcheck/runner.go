package loadcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/fairshare/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	outputPermission    = 0600
)

// Run executes a complete load check: health check, random scenario
// submission, verification and reporting. It returns ErrViolations when any
// accepted calculation breaks a property.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting fairshare load check",
		logger.String("baseURL", config.BaseURL),
		logger.Int("scenarios", config.NumScenarios),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)
	if err := checkServiceHealth(ctx, client, config.BaseURL); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	tolerance := fetchTolerance(ctx, client, config.BaseURL, config.Tolerance)

	scenarios, err := generateScenarios(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("scenario generation failed: %w", err)
	}

	results := submitScenarios(ctx, config, scenarios, tolerance, stats)

	var failing []Result
	for _, r := range results {
		if r.Calculation.ConservationViolated {
			stats.ConservationFlags++
		}
		if len(r.Violations) == 0 {
			continue
		}
		failing = append(failing, r)
		if config.Verbose {
			for _, msg := range r.Violations {
				logger.Get().Warn(ctx, "property violation",
					logger.String("calculationID", r.Calculation.ID),
					logger.String("violation", msg))
			}
		}
	}
	stats.WithViolations = len(failing)

	if len(failing) > 0 && config.OutputFile != "" {
		if err := saveResults(ctx, config.OutputFile, failing); err != nil {
			logger.Get().Warn(ctx, "failed to save failing scenarios", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load check interrupted: %w", err)
	}
	if stats.WithViolations > 0 {
		return stats, fmt.Errorf("%w: %d of %d calculations", ErrViolations, stats.WithViolations, stats.Accepted)
	}

	logger.Get().Info(ctx, "load check completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	resp, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// The service answers /healthz with its Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// saveResults writes results as an indented JSON array.
func saveResults(ctx context.Context, filename string, results []Result) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(filename, data, outputPermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	logger.Get().Info(ctx, "failing scenarios saved", logger.String("filename", filename), logger.Int("count", len(results)))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, perSecond float64

	if stats.Submitted > 0 {
		acceptRate = float64(stats.Accepted) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.ScenariosGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("withViolations", stats.WithViolations),
		logger.Int("conservationFlags", stats.ConservationFlags),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("calculationsPerSecond", perSecond))
}
