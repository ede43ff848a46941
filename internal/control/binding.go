package control

import (
	"math"

	"github.com/renderix/heliosphere/internal/gesture"
)

// Scale increment defaults.
const (
	// DefaultScaleStep is added to PVScale per accepted pinch event.
	DefaultScaleStep = 0.02
	// DefaultWriteGuard suppresses scale writes smaller than this, so a
	// saturated control stops generating updates.
	DefaultWriteGuard = 0.01
)

// Binding maps emitted gesture states onto control mutations. It runs once
// per received (already throttled) state and performs no smoothing of its
// own: debouncing happens upstream in the classifier and visual smoothing
// downstream in the renderer.
type Binding struct {
	state      *State
	scaleStep  float64
	writeGuard float64
}

// NewBinding creates a Binding writing to the given state.
func NewBinding(state *State) *Binding {
	return &Binding{
		state:      state,
		scaleStep:  DefaultScaleStep,
		writeGuard: DefaultWriteGuard,
	}
}

// SetScaleStep overrides the per-pinch increment. Values <= 0 are ignored.
func (b *Binding) SetScaleStep(step float64) {
	if step <= 0 {
		return
	}
	b.scaleStep = step
}

// Apply mutates the control state according to one gesture state.
//
// Rules:
//   - open palm turns auto-rotation on (only if currently off)
//   - fist turns auto-rotation off (only if currently on)
//   - pinch increments PVScale by the step, clamped to [0,1]; the write is
//     skipped when the effective change is within the guard, so a control
//     already saturated at 1.0 stays untouched
//
// Palm and fist are mutually exclusive by construction in the classifier,
// so the two toggle rules never conflict.
func (b *Binding) Apply(g gesture.State) {
	if g.PalmOpen && !b.state.AutoRotate() {
		b.state.SetAutoRotate(true)
	} else if g.Fist && b.state.AutoRotate() {
		b.state.SetAutoRotate(false)
	}

	if g.Pinching {
		current := b.state.PVScale()
		next := current + b.scaleStep
		if next > 1 {
			next = 1
		}
		if math.Abs(next-current) > b.writeGuard {
			b.state.SetPVScale(next)
		}
	}
}
