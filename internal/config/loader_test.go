package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/fairshare/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.TransferTolerance, convey.ShouldEqual, 0.01)
				convey.So(cfg.MaxParticipants, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FAIRSHARE_ADDR", ":8080")
			_ = os.Setenv("FAIRSHARE_TRANSFER_TOLERANCE", "0.05")
			_ = os.Setenv("FAIRSHARE_DEFAULT_MINIMUM_SCORE", "15")
			_ = os.Setenv("FAIRSHARE_MAX_PARTICIPANTS", "24")
			_ = os.Setenv("FAIRSHARE_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TransferTolerance, convey.ShouldEqual, 0.05)
				convey.So(cfg.DefaultMinimumScore, convey.ShouldEqual, 15.0)
				convey.So(cfg.MaxParticipants, convey.ShouldEqual, 24)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MinParticipants, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_level: debug
transfer_tolerance: 0.001
min_participants: 1
max_participants: 50
max_body_bytes: 4096
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FAIRSHARE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.TransferTolerance, convey.ShouldEqual, 0.001)
				convey.So(cfg.MinParticipants, convey.ShouldEqual, 1)
				convey.So(cfg.MaxParticipants, convey.ShouldEqual, 50)
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, int64(4096))
				convey.So(cfg.DefaultMinimumScore, convey.ShouldEqual, 20.0) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_participants: 50
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FAIRSHARE_CONFIG", tmpFile)
			_ = os.Setenv("FAIRSHARE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")         // Overridden by env
				convey.So(cfg.MaxParticipants, convey.ShouldEqual, 50) // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FAIRSHARE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error naming the file", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldStartWith, "cannot read fairshare config (FAIRSHARE_CONFIG file")
				convey.So(err.Error(), convey.ShouldContainSubstring, tmpFile)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FAIRSHARE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("FAIRSHARE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldEqual, "invalid fairshare setting: addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive tolerance", func() {
			_ = os.Setenv("FAIRSHARE_TRANSFER_TOLERANCE", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "transfer_tolerance")
			})
		})

		convey.Convey("When loading config with inverted participant bounds", func() {
			_ = os.Setenv("FAIRSHARE_MIN_PARTICIPANTS", "8")
			_ = os.Setenv("FAIRSHARE_MAX_PARTICIPANTS", "4")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with an unknown log format", func() {
			_ = os.Setenv("FAIRSHARE_LOG_FORMAT", "xml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "log_format")
			})
		})

		convey.Convey("When loading metrics settings from a YAML file", func() {
			tmpFile := createTempConfigFile(`
metrics_namespace: prizes
metrics_subsystem: eu
metrics_latency_buckets: [1, 5, 25]
metrics_const_labels:
  deployment: staging
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FAIRSHARE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then they should be decoded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "prizes")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "eu")
				convey.So(cfg.MetricsLatencyBuckets, convey.ShouldResemble, []float64{1, 5, 25})
				convey.So(cfg.MetricsConstLabels, convey.ShouldResemble, map[string]string{"deployment": "staging"})
			})
		})

		convey.Convey("When loading a metrics namespace that is not a metric name", func() {
			_ = os.Setenv("FAIRSHARE_METRICS_NAMESPACE", "fair-share")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected by key", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, `metrics_namespace "fair-share"`)
			})
		})

		convey.Convey("When loading latency buckets out of order", func() {
			tmpFile := createTempConfigFile("metrics_latency_buckets: [5, 5, 10]\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FAIRSHARE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "metrics_latency_buckets")
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FAIRSHARE_MAX_PARTICIPANTS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FAIRSHARE_CONFIG",
		"FAIRSHARE_ADDR",
		"FAIRSHARE_LOG_LEVEL",
		"FAIRSHARE_LOG_FORMAT",
		"FAIRSHARE_TRANSFER_TOLERANCE",
		"FAIRSHARE_DEFAULT_MINIMUM_SCORE",
		"FAIRSHARE_MIN_PARTICIPANTS",
		"FAIRSHARE_MAX_PARTICIPANTS",
		"FAIRSHARE_MAX_BODY_BYTES",
		"FAIRSHARE_METRICS_NAMESPACE",
		"FAIRSHARE_METRICS_SUBSYSTEM",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "fairshare-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
