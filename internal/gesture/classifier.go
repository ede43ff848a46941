package gesture

import (
	"math"

	"github.com/renderix/heliosphere/internal/detector"
)

// Config holds the classification thresholds. The defaults are empirical
// constants tuned for a front-facing camera at roughly arm's length; they
// are configuration, not law, and deployments with different framing load
// their own values.
type Config struct {
	// PinchThreshold is the thumb-index tip distance below which a pinch
	// registers.
	PinchThreshold float64

	// FistThreshold bounds both the index-wrist and pinky-wrist distances
	// for a closed fist.
	FistThreshold float64

	// PalmThreshold is the index-wrist distance above which an open palm
	// registers.
	PalmThreshold float64

	// EmitDelta is the minimum pinch-distance change that re-emits a state
	// whose flags are unchanged.
	EmitDelta float64
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		PinchThreshold: 0.08,
		FistThreshold:  0.15,
		PalmThreshold:  0.2,
		EmitDelta:      0.05,
	}
}

// Classifier turns a stream of per-frame landmark sets into throttled
// gesture states. It keeps only the previously emitted state (for change
// detection) and the last processed video timestamp (so a frame whose
// timestamp has not advanced is never reprocessed).
type Classifier struct {
	config        Config
	prev          State
	lastTimestamp int64
}

// New creates a Classifier. The previous state starts neutral, so an
// initial run of empty frames produces no emissions.
func New(config Config) *Classifier {
	return &Classifier{
		config:        config,
		prev:          Neutral(),
		lastTimestamp: -1,
	}
}

// Classify processes the landmark sets detected in one video frame.
// It returns the candidate state and whether the consumer should receive
// it. emit is false when the frame timestamp has not advanced or when the
// candidate is a near-duplicate of the previously emitted state. The
// throttle matters because downstream control mutations are increments,
// not idempotent writes; re-applying a duplicate every frame would run
// away.
func (c *Classifier) Classify(hands []detector.HandLandmarks, timestampMs int64) (state State, emit bool) {
	if timestampMs <= c.lastTimestamp {
		return c.prev, false
	}
	c.lastTimestamp = timestampMs

	if len(hands) == 0 {
		return c.maybeEmit(Neutral())
	}

	return c.maybeEmit(c.classifyHand(&hands[0]))
}

// classifyHand derives the gesture state for a single hand.
func (c *Classifier) classifyHand(hand *detector.HandLandmarks) State {
	wrist := hand.Points[detector.Wrist]
	thumbTip := hand.Points[detector.ThumbTip]
	indexTip := hand.Points[detector.IndexTip]
	pinkyTip := hand.Points[detector.PinkyTip]

	pinchDist := detector.DistanceXY(thumbTip, indexTip)
	dIndex := detector.DistanceXY(indexTip, wrist)
	dPinky := detector.DistanceXY(pinkyTip, wrist)

	state := State{
		PinchDistance: clamp01(pinchDist),
		// Mirror x for the front-facing camera.
		CursorX: clamp01(1 - indexTip.X),
		CursorY: clamp01(indexTip.Y),
	}

	// Priority order: pinch beats fist beats palm.
	switch {
	case pinchDist < c.config.PinchThreshold:
		state.Pinching = true
	case dIndex < c.config.FistThreshold && dPinky < c.config.FistThreshold:
		state.Fist = true
	case dIndex > c.config.PalmThreshold:
		state.PalmOpen = true
	}

	return state
}

// maybeEmit applies the change-detection throttle: a state goes out only
// if a flag flipped or the pinch distance moved by more than EmitDelta.
func (c *Classifier) maybeEmit(candidate State) (State, bool) {
	if candidate.FlagsEqual(c.prev) &&
		math.Abs(candidate.PinchDistance-c.prev.PinchDistance) <= c.config.EmitDelta {
		return c.prev, false
	}

	c.prev = candidate
	return candidate, true
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
