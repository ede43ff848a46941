// Package gesture classifies per-frame hand landmarks into debounced
// control signals for the globe.
package gesture

// State is the classified gesture value for one video frame.
// The three flags are mutually exclusive by construction: classification
// resolves them in pinch > fist > palm priority order. A hand that matches
// none of the thresholds yields all flags false, which is the intentional
// "unknown" region rather than an error.
type State struct {
	PalmOpen bool `json:"palmOpen"`
	Fist     bool `json:"fist"`
	Pinching bool `json:"pinching"`

	// PinchDistance is the thumb-index tip distance in normalized image
	// space, clamped to [0,1].
	PinchDistance float64 `json:"pinchDistance"`

	// CursorX and CursorY track the index fingertip in [0,1]. CursorX is
	// mirrored so that moving the hand right moves the cursor right on a
	// front-facing camera.
	CursorX float64 `json:"cursorX"`
	CursorY float64 `json:"cursorY"`
}

// Neutral returns the state emitted when no hand is detected:
// all flags false, zero pinch distance, cursor centered.
func Neutral() State {
	return State{CursorX: 0.5, CursorY: 0.5}
}

// FlagsEqual reports whether the boolean flags of two states match.
func (s State) FlagsEqual(other State) bool {
	return s.PalmOpen == other.PalmOpen &&
		s.Fist == other.Fist &&
		s.Pinching == other.Pinching
}
