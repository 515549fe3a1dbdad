package validation

// Option applies a configuration option to the Validator.
type Option func(*Validator)

// WithParticipantBounds sets the accepted participant count range. Invalid
// ranges are ignored.
func WithParticipantBounds(minCount, maxCount int) Option {
	return func(v *Validator) {
		if minCount > 0 && maxCount >= minCount {
			v.minParticipants = minCount
			v.maxParticipants = maxCount
		}
	}
}

// WithDefaultMinimumScore sets the threshold used when a request omits one.
func WithDefaultMinimumScore(score float64) Option {
	return func(v *Validator) {
		if score >= 0 {
			v.defaultMinimumScore = score
		}
	}
}
