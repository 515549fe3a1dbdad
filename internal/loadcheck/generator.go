package loadcheck

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/fairshare/internal/domain/types"
	"github.com/okian/fairshare/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	scenarioKinds      = 8
	nameLength         = 8
)

// Constants for scenario ranges.
const (
	minParticipants = 2
	maxParticipants = 10
	maxScore        = 100.0
	maxMinimumScore = 40.0
	tiedScore       = 50.0
	scoreDecimals   = 10 // scores carry one decimal
)

// Constants for scenario kinds.
const (
	caseRandomScores = iota
	caseAllTied
	caseAllZero
	caseDefaultThreshold
	caseNoneEligible
	caseSingleEligible
)

var contributions = []float64{5, 10, 20, 25, 50, 100}

// getRandomFloat returns a random float64 in [0, 1) using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [0, n).
func getRandomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func ptr(v float64) *float64 { return &v }

func randomScore(upper float64) float64 {
	return math.Round(getRandomFloat()*upper*scoreDecimals) / scoreDecimals
}

// generateScenarios creates n random calculation requests.
func generateScenarios(ctx context.Context, config *Config, stats *Stats) ([]types.CalculationRequest, error) {
	if config.NumScenarios <= 0 {
		return nil, ErrNoScenarios
	}
	logger.Get().Info(ctx, "generating scenarios", logger.Int("count", config.NumScenarios))

	scenarios := make([]types.CalculationRequest, config.NumScenarios)
	for i := range scenarios {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		scenarios[i] = GenerateScenario()
	}

	stats.ScenariosGenerated = len(scenarios)
	return scenarios, nil
}

// GenerateScenario returns a valid random request. A share of the
// scenarios exercise edge cases: tied scores, all-zero scores, an omitted
// threshold, nobody eligible and a single eligible participant.
func GenerateScenario() types.CalculationRequest {
	count := minParticipants + getRandomInt(maxParticipants-minParticipants+1)
	contribution := contributions[getRandomInt(len(contributions))]
	minimumScore := randomScore(maxMinimumScore)

	req := types.CalculationRequest{
		ContributionPerParticipant: ptr(contribution),
		MinimumScore:               ptr(minimumScore),
		Participants:               make([]types.ParticipantInput, count),
	}

	kind := getRandomInt(scenarioKinds)
	for i := range req.Participants {
		var score float64
		switch kind {
		case caseAllTied:
			score = tiedScore
		case caseAllZero:
			score = 0
		case caseNoneEligible:
			score = randomScore(minimumScore)
			if score >= minimumScore {
				score = 0
			}
		case caseSingleEligible:
			score = 0
			if i == 0 {
				score = minimumScore + randomScore(maxScore-minimumScore) + 1
			}
		default:
			score = randomScore(maxScore)
		}
		req.Participants[i] = types.ParticipantInput{Name: randomName(), Score: ptr(score)}
	}

	switch kind {
	case caseAllTied, caseAllZero:
		req.MinimumScore = ptr(0)
	case caseDefaultThreshold:
		req.MinimumScore = nil
	case caseNoneEligible:
		if minimumScore == 0 {
			req.MinimumScore = ptr(1)
		}
	}
	return req
}

func randomName() string {
	return "p-" + uuid.NewString()[:nameLength]
}
