package app

import "sync"

// SubsystemState describes the gesture subsystem's lifecycle state.
// A failed gesture subsystem never takes the rest of the service down:
// the globe keeps rendering and manual controls keep working, and the
// status is surfaced for a user-visible retry.
type SubsystemState string

const (
	StateStopped SubsystemState = "stopped"
	StateRunning SubsystemState = "running"
	StateFailed  SubsystemState = "failed"
)

// Status is the reportable state of the gesture subsystem.
type Status struct {
	State SubsystemState `json:"state"`
	Error string         `json:"error,omitempty"`
}

// statusHolder guards the subsystem status for concurrent readers.
type statusHolder struct {
	mu     sync.RWMutex
	status Status
}

func (h *statusHolder) get() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

func (h *statusHolder) set(state SubsystemState, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = Status{State: state}
	if err != nil {
		h.status.Error = err.Error()
	}
}
