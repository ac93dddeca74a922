// Package metrics provides Prometheus metrics for packing runs
package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/eugenenazirov/shipment-planner/internal/packing"
	"github.com/eugenenazirov/shipment-planner/internal/shipment"
)

// unknownStrategy labels failed runs that named a strategy that does not exist,
// keeping label cardinality bounded.
const unknownStrategy = "unknown"

var (
	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipment_runs_total",
			Help: "Total number of packing runs",
		},
		[]string{"strategy", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shipment_run_duration_seconds",
			Help:    "Time taken by a packing run",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"strategy"},
	)

	// Output metrics
	PiecesPacked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipment_pieces_total",
			Help: "Total number of artwork pieces submitted",
		},
		[]string{"strategy"},
	)

	UnassignedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipment_unassigned_items_total",
			Help: "Items or split fragments no box could take",
		},
		[]string{"strategy"},
	)

	UnassignedBoxes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipment_unassigned_boxes_total",
			Help: "Boxes no outer container could take",
		},
		[]string{"strategy"},
	)

	BoxesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipment_boxes_total",
			Help: "Boxes produced, by box type",
		},
		[]string{"strategy", "type"},
	)

	ContainersBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipment_containers_total",
			Help: "Outer containers produced, by container type",
		},
		[]string{"strategy", "type"},
	)
)

// Recorder records run outcomes. It satisfies shipment.Observer.
type Recorder struct{}

// NewRecorder creates a metrics recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Observe records a completed run
func (r *Recorder) Observe(report shipment.Report) {
	strategy := report.Metadata.Strategy
	RunsTotal.WithLabelValues(strategy, "ok").Inc()
	RunDuration.WithLabelValues(strategy).Observe(runSeconds(report.Metadata))
	PiecesPacked.WithLabelValues(strategy).Add(float64(report.WorkOrder.TotalPieces))
	UnassignedItems.WithLabelValues(strategy).Add(float64(report.Metadata.UnassignedItems))
	UnassignedBoxes.WithLabelValues(strategy).Add(float64(report.Metadata.UnassignedBoxes))
	for _, tc := range report.Packing.Boxes {
		BoxesBuilt.WithLabelValues(strategy, tc.Type).Add(float64(tc.Count))
	}
	for _, tc := range report.Packing.Containers {
		ContainersBuilt.WithLabelValues(strategy, tc.Type).Add(float64(tc.Count))
	}
}

// runSeconds is the full-precision run duration; DurationMs is truncated to
// whole milliseconds.
func runSeconds(meta shipment.RunMetadata) float64 {
	d := meta.FinishedAt.Sub(meta.StartedAt)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

// ObserveFailure records a run that aborted
func (r *Recorder) ObserveFailure(strategy string) {
	if !slices.Contains(packing.Strategies(), strategy) {
		strategy = unknownStrategy
	}
	RunsTotal.WithLabelValues(strategy, "error").Inc()
}
