// Package control owns the application control state mutated by gestures
// and by the manual UI.
package control

import "sync"

// Snapshot is an immutable copy of the control values at one instant.
type Snapshot struct {
	// AutoRotate spins the globe when true.
	AutoRotate bool `json:"autoRotate"`

	// PVScale drives the station batch scale, always in [0,1].
	PVScale float64 `json:"pvScale"`
}

// State is the process-wide control value. The frame pipeline and the HTTP
// layer both write through it, and the WebSocket broadcaster reads it from
// its own goroutine, so access is mutex-guarded even though each writer is
// itself sequential.
type State struct {
	mu         sync.RWMutex
	autoRotate bool
	pvScale    float64
}

// NewState returns a State with rotation enabled and the batch at minimum
// scale.
func NewState() *State {
	return &State{autoRotate: true}
}

// Snapshot returns a copy of the current values.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{AutoRotate: s.autoRotate, PVScale: s.pvScale}
}

// AutoRotate reports whether the globe is spinning.
func (s *State) AutoRotate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoRotate
}

// SetAutoRotate sets the rotation flag.
func (s *State) SetAutoRotate(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoRotate = on
}

// PVScale returns the current station scale control value.
func (s *State) PVScale() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pvScale
}

// SetPVScale sets the scale control value, clamped to [0,1].
func (s *State) SetPVScale(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pvScale = v
}
