package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it registers every metric without panicking", func() {
				So(manager, ShouldNotBeNil)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 20)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithRegistry(registry),
				WithNamespace("testns"),
				WithHistogramBuckets([]float64{1, 10, 100}),
			)

			Convey("Then the namespace is applied to metric names", func() {
				So(manager, ShouldNotBeNil)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				for _, f := range families {
					So(f.GetName(), ShouldStartWith, "testns_")
				}
			})
		})
	})
}

func TestRecordingHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline metrics", func() {
			So(func() {
				RecordKPICalculation()
				RecordKPICalculationLatency(12.5)
				RecordKPIEmptyResult()
				RecordAnomalousRecords(2)
				RecordRecordIngested("submission")
				RecordRecordDuplicate()
			}, ShouldNotPanic)
		})

		Convey("When recording bus and scheduler metrics", func() {
			So(func() {
				RecordBusEventPublished("kpi.refreshed")
				UpdateBusSubscribers(3)
				RecordSchedulerTick()
				RecordSchedulerTickSkipped()
				RecordSchedulerError()
				UpdateSchedulerActiveTimers(1)
			}, ShouldNotPanic)
		})

		Convey("When recording queue, worker and store metrics", func() {
			So(func() {
				UpdateQueueSize(5)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.05)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				UpdateWorkerCount(4)
				RecordWorkerApplyLatency(1.5)
				RecordWorkerError()
				UpdateStoreSubmissions(10)
				UpdateStoreReviews(20)
				UpdateStorePublishers(2)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("kpis", "GET", "200")
				RecordHTTPRequestDuration("kpis", "GET", "200", 3.2)
				RecordErrorByComponent("queue", "queue_full")
			}, ShouldNotPanic)
		})

		Convey("When the registry is gathered", func() {
			families, err := GetRegistry().Gather()

			Convey("Then the recorded metrics are present", func() {
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["scorecard_kpi_calculations_total"], ShouldBeTrue)
				So(names["scorecard_kpi_records_ingested_total"], ShouldBeTrue)
				So(names["scorecard_kpi_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
