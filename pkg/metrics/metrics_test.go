package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the default namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "fairshare")
				So(manager.subsystem, ShouldEqual, "calculator")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithLatencyBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordRename()

			Convey("Then the options should be applied to registered metrics", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() == "test_namespace_test_subsystem_renames_total" {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
						So(mf.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithLatencyBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "fairshare")
				So(manager.subsystem, ShouldEqual, "calculator")
				So(manager.latencyBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given metrics settings from the service config", t, func() {
		previous, previousRegistry := globalManager, customRegistry
		Reset(func() { globalManager, customRegistry = previous, previousRegistry })

		registry := Configure(
			WithNamespace("prizes"),
			WithSubsystem("eu"),
			WithLatencyBuckets([]float64{1, 10, 100}),
			WithConstLabels(map[string]string{"deployment": "staging"}),
		)

		Convey("When a calculation is recorded through the package functions", func() {
			ObserveCalculation(2, 1, 50, 3)

			Convey("Then the registry served by GetRegistry exposes the configured names", func() {
				So(GetRegistry(), ShouldEqual, registry)

				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := map[string]bool{}
				for _, mf := range families {
					names[mf.GetName()] = true
					if mf.GetName() == "prizes_eu_calculation_latency_milliseconds" {
						h := mf.GetMetric()[0].GetHistogram()
						So(len(h.GetBucket()), ShouldEqual, 3)
						So(h.GetBucket()[1].GetCumulativeCount(), ShouldEqual, 1)
					}
				}
				So(names["prizes_eu_calculations_total"], ShouldBeTrue)
				So(names["prizes_eu_calculation_latency_milliseconds"], ShouldBeTrue)
				So(names["fairshare_calculator_calculations_total"], ShouldBeFalse)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When a calculation is observed", func() {
			manager.ObserveCalculation(4, 2, 75, 0.3)

			Convey("Then the counters and histograms should be updated", func() {
				So(testutil.ToFloat64(manager.calculationsTotal), ShouldEqual, 1)
				So(testutil.CollectAndCount(manager.transfersPerCalculation), ShouldEqual, 1)
				So(testutil.CollectAndCount(manager.prizePool), ShouldEqual, 1)
			})
		})

		Convey("When validation failures are recorded", func() {
			manager.RecordValidationFailure("participants[3].name")
			manager.RecordValidationFailure("participants[0].name")
			manager.RecordValidationFailure("contribution_per_participant")

			Convey("Then participant indexes should be folded into one label", func() {
				So(testutil.ToFloat64(manager.validationFailures.WithLabelValues("participants.name")), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.validationFailures.WithLabelValues("contribution_per_participant")), ShouldEqual, 1)
			})
		})

		Convey("When a conservation violation is recorded", func() {
			manager.RecordConservationViolation()

			Convey("Then it should be counted", func() {
				So(testutil.ToFloat64(manager.conservationViolations), ShouldEqual, 1)
			})
		})
	})
}

func TestFieldLabel(t *testing.T) {
	Convey("Given field paths", t, func() {
		So(FieldLabel("participants[12].score"), ShouldEqual, "participants.score")
		So(FieldLabel("minimum_score"), ShouldEqual, "minimum_score")
		So(FieldLabel(""), ShouldEqual, "")
	})
}

func TestGlobalFunctions(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through package functions", func() {
			So(func() {
				ObserveCalculation(3, 1, 30, 0.1)
				RecordValidationFailure("participants[1].score")
				RecordConservationViolation()
				RecordRename()
				RecordHTTPRequest("calculations", "POST", "200")
				RecordHTTPRequestDuration("calculations", "POST", "200", 1.5)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("calculations", "POST", "client_error")
				RecordErrorLatency("http", "client_error", 1)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.2)
			}, ShouldNotPanic)

			Convey("Then the custom registry should expose them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
