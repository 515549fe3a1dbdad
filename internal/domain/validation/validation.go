// Package validation checks calculation requests before they reach the
// distribution calculator, which assumes its input is already valid.
package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/fairshare/internal/domain/model"
	"github.com/okian/fairshare/internal/domain/types"
)

// Defaults mirror the original calculator form.
const (
	DefaultMinParticipants     = 2
	DefaultMaxParticipants     = 10
	DefaultMinimumScore        = 20.0
	fieldContribution          = "contribution_per_participant"
	fieldMinimumScore          = "minimum_score"
	fieldParticipants          = "participants"
	participantFieldNameFormat = "participants[%d].%s"
)

// Input is a validated, normalized calculation request.
type Input struct {
	Participants               []model.Participant
	ContributionPerParticipant float64
	MinimumScore               float64
}

// Validator checks requests in a fixed order and stops at the first failure.
type Validator struct {
	minParticipants     int
	maxParticipants     int
	defaultMinimumScore float64
}

// New creates a Validator with configuration options.
func New(opts ...Option) *Validator {
	v := &Validator{
		minParticipants:     DefaultMinParticipants,
		maxParticipants:     DefaultMaxParticipants,
		defaultMinimumScore: DefaultMinimumScore,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks, in order: contribution > 0 with a finite pool, minimum
// score >= 0, then for each participant a non-empty trimmed name and a present
// score >= 0 keeping the score total finite, and finally the participant
// count. The first violation is returned as a *FieldError.
func (v *Validator) Validate(req types.CalculationRequest) (Input, error) {
	if req.ContributionPerParticipant == nil {
		return Input{}, fieldError(fieldContribution, "is required")
	}
	contribution := *req.ContributionPerParticipant
	if !isFinite(contribution) || contribution <= 0 {
		return Input{}, fieldError(fieldContribution, "must be a positive number")
	}
	if !isFinite(contribution * float64(len(req.Participants))) {
		return Input{}, fieldError(fieldContribution, "is too large for %d participants", len(req.Participants))
	}

	minimumScore := v.defaultMinimumScore
	if req.MinimumScore != nil {
		minimumScore = *req.MinimumScore
	}
	if !isFinite(minimumScore) || minimumScore < 0 {
		return Input{}, fieldError(fieldMinimumScore, "must be a non-negative number")
	}

	var scoreSum float64
	participants := make([]model.Participant, len(req.Participants))
	for i, p := range req.Participants {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return Input{}, fieldError(participantField(i, "name"), "participant %d needs a name", i+1)
		}
		if p.Score == nil || !isFinite(*p.Score) || *p.Score < 0 {
			return Input{}, fieldError(participantField(i, "score"), "%s needs a valid non-negative score", name)
		}
		if scoreSum += *p.Score; !isFinite(scoreSum) {
			return Input{}, fieldError(participantField(i, "score"), "%s's score makes the score total overflow", name)
		}
		participants[i] = model.Participant{Name: name, Score: *p.Score}
	}

	if n := len(participants); n < v.minParticipants || n > v.maxParticipants {
		return Input{}, fieldError(fieldParticipants, "between %d and %d participants are required, got %d",
			v.minParticipants, v.maxParticipants, n)
	}

	return Input{
		Participants:               participants,
		ContributionPerParticipant: contribution,
		MinimumScore:               minimumScore,
	}, nil
}

func participantField(i int, name string) string {
	return fmt.Sprintf(participantFieldNameFormat, i, name)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateRename checks a rename request and returns the trimmed names.
func ValidateRename(previous, next string) (string, string, error) {
	previous = strings.TrimSpace(previous)
	next = strings.TrimSpace(next)
	if previous == "" {
		return "", "", fieldError("previous", "is required")
	}
	if next == "" {
		return "", "", fieldError("next", "is required")
	}
	return previous, next, nil
}
