package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithRefreshInterval(3*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then every metric is registered under the namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.RefreshInterval(), ShouldEqual, 3*time.Second)

				manager.messagesAppended.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "test_unit_"), ShouldBeTrue)
				}
			})
		})

		Convey("When options carry zero values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithRefreshInterval(0),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "pitcrew")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording message metrics", func() {
			before := value(globalManager.messagesAppended)
			RecordMessageAppended()

			Convey("Then the counter moves by one", func() {
				So(value(globalManager.messagesAppended), ShouldEqual, before+1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateContacts(4)
			UpdateTeams(2)
			UpdateBattles(7)
			UpdateSubscribers(3)

			Convey("Then they hold the last value", func() {
				So(value(globalManager.contactsTotal), ShouldEqual, 4)
				So(value(globalManager.teamsTotal), ShouldEqual, 2)
				So(value(globalManager.battlesTotal), ShouldEqual, 7)
				So(value(globalManager.subscribers), ShouldEqual, 3)
			})
		})

		Convey("When recording labelled metrics", func() {
			So(func() {
				RecordHTTPRequest("battles", "GET", "200")
				RecordHTTPRequestDuration("battles", "GET", "200", 1.5)
				RecordErrorByEndpoint("teams", "POST", "client_error")
				RecordErrorByComponent("queue", "queue_full")
				RecordFanoutDropped("queue_full")
				RecordCalloutRejected("invalid_call")
			}, ShouldNotPanic)
		})

		Convey("Then the registry serves them", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}

// value reads the current value of a counter or gauge.
func value(c prometheus.Metric) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return -1
	}
	if m.Counter != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}
