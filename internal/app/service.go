// Package service runs prize calculations on behalf of the HTTP API: it
// validates requests, computes the distribution, settles it into transfers
// and records logs and metrics along the way.
package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fairshare/internal/domain/distribution"
	"github.com/okian/fairshare/internal/domain/settlement"
	"github.com/okian/fairshare/internal/domain/types"
	"github.com/okian/fairshare/internal/domain/validation"
	"github.com/okian/fairshare/pkg/logger"
	"github.com/okian/fairshare/pkg/metrics"
)

const millisecondsPerSecond = 1e3

// Service implements the API dependencies for the calculator. Each
// calculation is independent; the only shared state is counters.
type Service struct {
	mu sync.RWMutex

	validator *validation.Validator
	matcher   *settlement.Matcher

	// Configuration
	tolerance           float64
	minParticipants     int
	maxParticipants     int
	defaultMinimumScore float64
	newID               func() string

	// State
	started                bool
	calculations           atomic.Int64
	validationFailures     atomic.Int64
	conservationViolations atomic.Int64
	renames                atomic.Int64
	lastID                 atomic.Value // string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTransferTolerance sets the settlement tolerance.
func WithTransferTolerance(tolerance float64) Option {
	return func(s *Service) {
		if tolerance > 0 {
			s.tolerance = tolerance
		}
	}
}

// WithParticipantBounds sets the accepted participant count range.
func WithParticipantBounds(minCount, maxCount int) Option {
	return func(s *Service) {
		if minCount > 0 && maxCount >= minCount {
			s.minParticipants = minCount
			s.maxParticipants = maxCount
		}
	}
}

// WithDefaultMinimumScore sets the threshold used when a request omits one.
func WithDefaultMinimumScore(score float64) Option {
	return func(s *Service) {
		if score >= 0 {
			s.defaultMinimumScore = score
		}
	}
}

// WithIDGenerator replaces the calculation id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		tolerance:           settlement.DefaultTolerance,
		minParticipants:     validation.DefaultMinParticipants,
		maxParticipants:     validation.DefaultMaxParticipants,
		defaultMinimumScore: validation.DefaultMinimumScore,
		newID:               func() string { return uuid.NewString() },
	}

	for _, opt := range opts {
		opt(s)
	}

	s.validator = validation.New(
		validation.WithParticipantBounds(s.minParticipants, s.maxParticipants),
		validation.WithDefaultMinimumScore(s.defaultMinimumScore),
	)
	s.matcher = settlement.NewMatcher(settlement.WithTolerance(s.tolerance))
	s.lastID.Store("")

	return s
}

// Start marks the service ready. It is idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.logger.Info(ctx, "calculator service started",
		logger.Float64("transferTolerance", s.tolerance),
		logger.Int("minParticipants", s.minParticipants),
		logger.Int("maxParticipants", s.maxParticipants),
		logger.Float64("defaultMinimumScore", s.defaultMinimumScore),
	)
	return nil
}

// Stop marks the service stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "calculator service stopped",
		logger.Int("calculations", int(s.calculations.Load())),
	)
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// Calculate validates req, splits the pool and settles it into transfers.
// Validation failures are returned as *validation.FieldError.
func (s *Service) Calculate(ctx context.Context, req types.CalculationRequest) (types.Calculation, error) {
	start := time.Now()
	log := s.log()

	in, err := s.validator.Validate(req)
	if err != nil {
		s.recordValidationFailure(ctx, err)
		return types.Calculation{}, err
	}

	d := distribution.Compute(in.Participants, in.ContributionPerParticipant, in.MinimumScore)
	all := d.All()
	transfers := s.matcher.Transfers(all)

	calc := types.NewCalculation(s.newID(), in.ContributionPerParticipant, d, transfers)

	if imbalance := settlement.Imbalance(all); math.Abs(imbalance) > s.tolerance {
		calc.ConservationViolated = true
		calc.UnsettledAmount = math.Abs(imbalance)
		s.conservationViolations.Add(1)
		metrics.RecordConservationViolation()
		log.Warn(ctx, "deserved amounts do not add up to the prize pool",
			logger.String("calculationID", calc.ID),
			logger.Float64("totalPool", d.TotalPool),
			logger.Float64("totalEligibleScore", d.TotalEligibleScore),
			logger.Float64("imbalance", imbalance),
		)
	}

	s.calculations.Add(1)
	s.lastID.Store(calc.ID)

	latencyMs := float64(time.Since(start).Microseconds()) / millisecondsPerSecond
	metrics.ObserveCalculation(len(in.Participants), len(transfers), d.TotalPool, latencyMs)

	log.Debug(ctx, "calculation completed",
		logger.String("calculationID", calc.ID),
		logger.Int("eligible", len(d.Eligible)),
		logger.Int("ineligible", len(d.Ineligible)),
		logger.Int("transfers", len(transfers)),
		logger.Float64("totalPool", d.TotalPool),
	)

	return calc, nil
}

// Rename replaces a participant name throughout an existing calculation.
func (s *Service) Rename(ctx context.Context, req types.RenameRequest) (types.Calculation, error) {
	previous, next, err := validation.ValidateRename(req.Previous, req.Next)
	if err != nil {
		s.recordValidationFailure(ctx, err)
		return types.Calculation{}, err
	}

	renamed := req.Calculation.Rename(previous, next)
	s.renames.Add(1)
	metrics.RecordRename()

	s.log().Debug(ctx, "participant renamed",
		logger.String("calculationID", renamed.ID),
		logger.String("previous", previous),
		logger.String("next", next),
	)
	return renamed, nil
}

func (s *Service) recordValidationFailure(ctx context.Context, err error) {
	s.validationFailures.Add(1)

	field := "unknown"
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		field = fe.Field
	}
	metrics.RecordValidationFailure(field)
	s.log().Debug(ctx, "calculation request rejected",
		logger.String("field", field),
		logger.Error(err),
	)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	return map[string]interface{}{
		"started":                started,
		"calculations":           s.calculations.Load(),
		"validationFailures":     s.validationFailures.Load(),
		"conservationViolations": s.conservationViolations.Load(),
		"renames":                s.renames.Load(),
		"lastCalculationID":      s.lastID.Load().(string),
		"transferTolerance":      s.tolerance,
		"minParticipants":        s.minParticipants,
		"maxParticipants":        s.maxParticipants,
	}
}
