package config

import "errors"

var (
	// ErrInvalidConfig wraps a setting that loaded but failed Validate. The
	// wrapped message names the offending koanf key.
	ErrInvalidConfig = errors.New("invalid fairshare setting")

	// ErrLoadConfig wraps a failure reading FAIRSHARE_CONFIG or decoding the
	// FAIRSHARE_ environment.
	ErrLoadConfig = errors.New("cannot read fairshare config (FAIRSHARE_CONFIG file or FAIRSHARE_* env)")
)
