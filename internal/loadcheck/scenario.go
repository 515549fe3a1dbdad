package loadcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/fairshare/internal/domain/types"
	"github.com/okian/fairshare/internal/report"
	"github.com/okian/fairshare/pkg/logger"
)

// LoadScenario reads a calculation request from a YAML file:
//
//	contribution_per_participant: 25
//	minimum_score: 20
//	participants:
//	  - name: A
//	    score: 80
func LoadScenario(path string) (types.CalculationRequest, error) {
	var req types.CalculationRequest

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return req, fmt.Errorf("load scenario %s: %w", path, err)
	}
	if err := k.UnmarshalWithConf("", &req, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return req, fmt.Errorf("%w: %s: %w", ErrScenarioInvalid, path, err)
	}
	if len(req.Participants) == 0 {
		return req, fmt.Errorf("%w: %s: no participants", ErrScenarioInvalid, path)
	}
	return req, nil
}

// RunScenario submits the scenario in config.ScenarioFile, verifies the
// answer and renders it to w.
func RunScenario(ctx context.Context, config *Config, w io.Writer) error {
	req, err := LoadScenario(config.ScenarioFile)
	if err != nil {
		return err
	}

	client := newHTTPClient(config.Timeout)
	tolerance := fetchTolerance(ctx, client, config.BaseURL, config.Tolerance)

	result := submitSingleScenario(ctx, client, config.BaseURL+"/calculations", req)
	switch result.Outcome {
	case OutcomeAccepted:
	case OutcomeRejected:
		return fmt.Errorf("%w: service answered %d: %s", ErrScenarioInvalid, result.Status, result.Message)
	default:
		return fmt.Errorf("scenario submission failed with status %d", result.Status)
	}

	if err := report.Write(w, result.Calculation); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	violations := Verify(req, result.Calculation, tolerance)
	for _, msg := range violations {
		logger.Get().Warn(ctx, "property violation",
			logger.String("calculationID", result.Calculation.ID),
			logger.String("violation", msg))
	}
	if len(violations) > 0 {
		return fmt.Errorf("%w: %s", ErrViolations, strings.Join(violations, "; "))
	}
	return nil
}

// rejectionMessage extracts the message of an API error body.
func rejectionMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) != nil || e.Message == "" {
		return http.StatusText(http.StatusBadRequest)
	}
	return e.Message
}
