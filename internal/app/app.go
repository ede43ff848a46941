// Package app wires the capture, detection, classification, and placement
// components into the running service.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/renderix/heliosphere/internal/capture"
	"github.com/renderix/heliosphere/internal/config"
	"github.com/renderix/heliosphere/internal/control"
	"github.com/renderix/heliosphere/internal/detector"
	"github.com/renderix/heliosphere/internal/gesture"
	"github.com/renderix/heliosphere/internal/globe"
)

// Update is one pipeline emission delivered to subscribers: the gesture
// state that passed the throttle plus the control values and batch scale
// after applying it.
type Update struct {
	Gesture     gesture.State    `json:"gesture"`
	Control     control.Snapshot `json:"control"`
	BatchScale  float32          `json:"batchScale"`
	TimestampMs int64            `json:"timestampMs"`
}

// App orchestrates the frame pipeline and owns the control state.
type App struct {
	config   *config.Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector

	classifier *gesture.Classifier
	controls   *control.State
	binding    *control.Binding
	stations   *globe.InstancedStations
	overlay    *globe.Overlay

	status statusHolder

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	done    chan struct{}

	subsMu sync.Mutex
	subs   map[chan Update]struct{}

	// lastGesture mirrors the classifier's last emitted state for readers
	// outside the pipeline goroutine; the classifier itself is not safe for
	// concurrent use.
	gestureMu   sync.RWMutex
	lastGesture gesture.State
}

// New creates an App from the configuration and the prepared station
// catalog. Gesture control starts enabled.
func New(cfg *config.Config, catalog []globe.StationRecord) *App {
	controls := control.NewState()
	binding := control.NewBinding(controls)
	binding.SetScaleStep(cfg.ScaleStep)

	classifierCfg := gesture.Config{
		PinchThreshold: cfg.PinchThreshold,
		FistThreshold:  cfg.FistThreshold,
		PalmThreshold:  cfg.PalmThreshold,
		EmitDelta:      cfg.EmitDelta,
	}

	a := &App{
		config:     cfg,
		camera:     capture.NewCamera(cfg.CameraID),
		motion:     capture.NewMotionDetector(cfg.MotionThreshold),
		classifier: gesture.New(classifierCfg),
		controls:   controls,
		binding:    binding,
		stations: globe.NewInstancedStations(
			catalog,
			float32(cfg.GlobeRadius),
			float32(cfg.SurfaceOffset),
			float32(cfg.ScaleSmoothing),
		),
		overlay: globe.NewOverlay(
			globe.KubuqiAnchor,
			float32(cfg.GlobeRadius),
			float32(cfg.SurfaceOffset),
		),
		enabled:     true,
		subs:        make(map[chan Update]struct{}),
		lastGesture: gesture.Neutral(),
	}
	a.status.set(StateStopped, nil)

	return a
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetCamera overrides the camera implementation. Must be called before
// Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector overrides the detector implementation. Must be called before
// Start.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Start acquires the camera and the detector together and begins the frame
// loop. The two resources are a unit: if either acquisition fails, the
// other is released before Start returns and the failure is recorded in
// the subsystem status for a manual retry.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		a.status.set(StateFailed, err)
		return err
	}

	if a.detector == nil {
		mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
		if err != nil {
			// Scoped acquisition: the camera never outlives a failed
			// detector init.
			if cerr := a.camera.Close(); cerr != nil {
				log.Printf("Error closing camera after detector failure: %v", cerr)
			}
			a.status.set(StateFailed, err)
			return err
		}
		a.detector = mp
	}

	a.camera.SetFPS(a.config.IdleFPS)

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	a.status.set(StateRunning, nil)
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and releases camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	a.status.set(StateStopped, nil)
	log.Println("Detection pipeline stopped")
}

// Retry tears the gesture subsystem down and attempts a fresh start. It is
// the manual recovery path surfaced to the user when initialization
// failed.
func (a *App) Retry() error {
	a.Stop()
	return a.Start()
}

// Status reports the gesture subsystem state.
func (a *App) Status() Status {
	return a.status.get()
}

// Subscribe registers for pipeline emissions. The returned cancel function
// must be called to release the subscription.
func (a *App) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 8)

	a.subsMu.Lock()
	a.subs[ch] = struct{}{}
	a.subsMu.Unlock()

	cancel := func() {
		a.subsMu.Lock()
		delete(a.subs, ch)
		a.subsMu.Unlock()
	}
	return ch, cancel
}

// publish fans an update out to subscribers without ever blocking the
// frame loop; a slow consumer just misses updates.
func (a *App) publish(u Update) {
	a.subsMu.Lock()
	defer a.subsMu.Unlock()

	for ch := range a.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Controls returns the shared control state.
func (a *App) Controls() *control.State {
	return a.controls
}

// Stations returns the station instance batch.
func (a *App) Stations() *globe.InstancedStations {
	return a.stations
}

// Overlay returns the data overlay placement.
func (a *App) Overlay() *globe.Overlay {
	return a.overlay
}

// LastGesture returns the most recently emitted gesture state.
func (a *App) LastGesture() gesture.State {
	a.gestureMu.RLock()
	defer a.gestureMu.RUnlock()
	return a.lastGesture
}

func (a *App) setLastGesture(g gesture.State) {
	a.gestureMu.Lock()
	defer a.gestureMu.Unlock()
	a.lastGesture = g
}

// waitStopped is a test hook: it blocks until the pipeline goroutine has
// exited or the timeout passes.
func (a *App) waitStopped(timeout time.Duration) bool {
	a.mu.RLock()
	done := a.done
	a.mu.RUnlock()

	if done == nil {
		return true
	}

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
