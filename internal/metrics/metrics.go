// Package metrics exposes Prometheus instrumentation for the frame
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesProcessed counts frames that went through detection and
	// classification.
	FramesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heliosphere",
		Subsystem: "pipeline",
		Name:      "frames_processed_total",
		Help:      "Frames that were read and classified.",
	})

	// FramesSkipped counts frames dropped before classification, by reason
	// (idle, read_error, detect_error).
	FramesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heliosphere",
		Subsystem: "pipeline",
		Name:      "frames_skipped_total",
		Help:      "Frames dropped before classification, by reason.",
	}, []string{"reason"})

	// GestureEmissions counts gesture states that passed the throttle.
	GestureEmissions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heliosphere",
		Subsystem: "gesture",
		Name:      "emissions_total",
		Help:      "Gesture states emitted to consumers.",
	})

	// GestureThrottled counts candidate states suppressed by the
	// change-detection throttle.
	GestureThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "heliosphere",
		Subsystem: "gesture",
		Name:      "throttled_total",
		Help:      "Candidate gesture states suppressed as near-duplicates.",
	})

	// ControlWrites counts mutations applied to the control state.
	ControlWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "heliosphere",
		Subsystem: "control",
		Name:      "writes_total",
		Help:      "Control state mutations, by field.",
	}, []string{"field"})

	// BatchScale reports the current smoothed station batch scale.
	BatchScale = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "heliosphere",
		Subsystem: "globe",
		Name:      "batch_scale",
		Help:      "Smoothed global scale of the station instance batch.",
	})
)
