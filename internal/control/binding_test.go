package control

import (
	"testing"

	"github.com/renderix/heliosphere/internal/gesture"
)

func TestBinding_PalmEnablesRotation(t *testing.T) {
	state := NewState()
	state.SetAutoRotate(false)
	binding := NewBinding(state)

	binding.Apply(gesture.State{PalmOpen: true})
	if !state.AutoRotate() {
		t.Error("expected open palm to enable auto-rotation")
	}

	// Re-applying is a no-op, not a toggle.
	binding.Apply(gesture.State{PalmOpen: true})
	if !state.AutoRotate() {
		t.Error("expected repeated palm to leave rotation on")
	}
}

func TestBinding_FistDisablesRotation(t *testing.T) {
	state := NewState()
	binding := NewBinding(state)

	binding.Apply(gesture.State{Fist: true})
	if state.AutoRotate() {
		t.Error("expected fist to disable auto-rotation")
	}

	binding.Apply(gesture.State{Fist: true})
	if state.AutoRotate() {
		t.Error("expected repeated fist to leave rotation off")
	}
}

func TestBinding_PinchIncrementsScale(t *testing.T) {
	state := NewState()
	binding := NewBinding(state)

	binding.Apply(gesture.State{Pinching: true, PinchDistance: 0.05})
	if got := state.PVScale(); got < 0.019 || got > 0.021 {
		t.Errorf("expected one pinch to raise pvScale to ~0.02, got %f", got)
	}

	binding.Apply(gesture.State{Pinching: true, PinchDistance: 0.05})
	if got := state.PVScale(); got < 0.039 || got > 0.041 {
		t.Errorf("expected second pinch to raise pvScale to ~0.04, got %f", got)
	}
}

func TestBinding_PinchSaturatesWithoutOvershoot(t *testing.T) {
	state := NewState()
	binding := NewBinding(state)

	for i := 0; i < 60; i++ {
		binding.Apply(gesture.State{Pinching: true})
		if state.PVScale() > 1 {
			t.Fatalf("pvScale overshot 1.0 on iteration %d: %f", i, state.PVScale())
		}
	}

	if state.PVScale() != 1 {
		t.Errorf("expected pvScale saturated at 1.0, got %f", state.PVScale())
	}

	// Once saturated, further pinches must not write at all.
	before := state.PVScale()
	binding.Apply(gesture.State{Pinching: true})
	if state.PVScale() != before {
		t.Errorf("expected saturated pvScale to stay %f, got %f", before, state.PVScale())
	}
}

func TestBinding_NeutralStateIsInert(t *testing.T) {
	state := NewState()
	state.SetAutoRotate(false)
	state.SetPVScale(0.5)
	binding := NewBinding(state)

	binding.Apply(gesture.Neutral())

	if state.AutoRotate() {
		t.Error("neutral state must not touch rotation")
	}
	if state.PVScale() != 0.5 {
		t.Errorf("neutral state must not touch pvScale, got %f", state.PVScale())
	}
}

func TestState_SetPVScaleClamps(t *testing.T) {
	state := NewState()

	state.SetPVScale(1.7)
	if state.PVScale() != 1 {
		t.Errorf("expected clamp to 1, got %f", state.PVScale())
	}

	state.SetPVScale(-0.3)
	if state.PVScale() != 0 {
		t.Errorf("expected clamp to 0, got %f", state.PVScale())
	}
}
