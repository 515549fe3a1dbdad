package loadcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fairshare/internal/domain/types"
	"github.com/okian/fairshare/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// fetchTolerance reads the settlement tolerance the service reports on
// /stats, falling back to fallback.
func fetchTolerance(ctx context.Context, client *HTTPClient, baseURL string, fallback float64) float64 {
	resp, err := client.Get(ctx, baseURL+"/stats")
	if err != nil {
		return fallback
	}
	body, err := readResponseBody(resp)
	if err != nil || resp.StatusCode != http.StatusOK {
		return fallback
	}

	var stats struct {
		TransferTolerance float64 `json:"transferTolerance"`
	}
	if err := json.Unmarshal(body, &stats); err != nil || stats.TransferTolerance <= 0 {
		return fallback
	}
	return stats.TransferTolerance
}

// submitScenarios posts scenarios concurrently and verifies every
// accepted response.
func submitScenarios(ctx context.Context, config *Config, scenarios []types.CalculationRequest, tolerance float64, stats *Stats) []Result {
	logger.Get().Info(ctx, "submitting scenarios",
		logger.Int("count", len(scenarios)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/calculations"
	results := make([]Result, len(scenarios))
	processed := make([]bool, len(scenarios))

	var (
		submitted  int64
		accepted   int64
		rejected   int64
		failed     int64
		lastReport atomic.Int64
	)

	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}

	indexChan := make(chan int, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				if ctx.Err() != nil {
					return
				}
				result := submitSingleScenario(ctx, client, url, scenarios[index])
				if result.Outcome == OutcomeAccepted {
					result.Violations = Verify(result.Request, result.Calculation, tolerance)
				}
				results[index] = result
				processed[index] = true

				atomic.AddInt64(&submitted, 1)
				switch result.Outcome {
				case OutcomeAccepted:
					atomic.AddInt64(&accepted, 1)
				case OutcomeRejected:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if time.Duration(now-last) >= progressInterval && lastReport.CompareAndSwap(last, now) {
					logger.Get().Info(ctx, "progress",
						logger.Int("submitted", int(atomic.LoadInt64(&submitted))),
						logger.Int("total", len(scenarios)),
						logger.Int("accepted", int(atomic.LoadInt64(&accepted))),
						logger.Int("rejected", int(atomic.LoadInt64(&rejected))),
						logger.Int("failed", int(atomic.LoadInt64(&failed))))
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range scenarios {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Accepted = int(atomic.LoadInt64(&accepted))
	stats.Rejected = int(atomic.LoadInt64(&rejected))
	stats.Failed = int(atomic.LoadInt64(&failed))

	out := make([]Result, 0, stats.Submitted)
	for i, ok := range processed {
		if ok {
			out = append(out, results[i])
		}
	}
	return out
}

// submitSingleScenario posts one request and decodes the answer.
func submitSingleScenario(ctx context.Context, client *HTTPClient, url string, req types.CalculationRequest) Result {
	result := Result{Request: req, Outcome: OutcomeFailed}

	resp, err := client.Post(ctx, url, req)
	if err != nil {
		return result
	}
	result.Status = resp.StatusCode

	body, err := readResponseBody(resp)
	if err != nil {
		return result
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, &result.Calculation); err != nil {
			return result
		}
		result.Outcome = OutcomeAccepted
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		result.Outcome = OutcomeRejected
		result.Message = rejectionMessage(body)
	}
	return result
}
