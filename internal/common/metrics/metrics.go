package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the turn metrics for one process. It registers against the
// registry it is given so that nothing is shared through package state.
type Recorder struct {
	TurnsHandled   *prometheus.CounterVec
	TurnsFailed    *prometheus.CounterVec
	SlotViolations *prometheus.CounterVec
	TurnDuration   *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		TurnsHandled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_turns_handled_total",
				Help: "Total number of dialog turns answered with a dialog action",
			},
			[]string{"intent", "invocation_source", "dialog_action"},
		),
		TurnsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_turns_failed_total",
				Help: "Total number of dialog turns aborted with an error",
			},
			[]string{"error_code"},
		),
		SlotViolations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_slot_violations_total",
				Help: "Total number of slots re-elicited after failed validation",
			},
			[]string{"slot"},
		),
		TurnDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advisor_turn_duration_seconds",
				Help:    "Duration of dialog turn handling in seconds",
				Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
			},
			[]string{"invocation_source"},
		),
	}
}

func (r *Recorder) RecordTurn(intent, invocationSource, dialogAction string, elapsed time.Duration) {
	r.TurnsHandled.WithLabelValues(intent, invocationSource, dialogAction).Inc()
	r.TurnDuration.WithLabelValues(invocationSource).Observe(elapsed.Seconds())
}

func (r *Recorder) RecordFailure(errorCode string) {
	r.TurnsFailed.WithLabelValues(errorCode).Inc()
}

func (r *Recorder) RecordSlotViolation(slot string) {
	r.SlotViolations.WithLabelValues(slot).Inc()
}

// WriteTextfile dumps everything gathered by g in the node_exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
