package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/renderix/heliosphere/internal/capture"
	"github.com/renderix/heliosphere/internal/config"
	"github.com/renderix/heliosphere/internal/control"
	"github.com/renderix/heliosphere/internal/detector"
	"github.com/renderix/heliosphere/internal/globe"
)

// fakeCamera implements capture.Camera without touching OpenCV. ReadFrame
// always fails, which is enough for lifecycle tests.
type fakeCamera struct {
	mu      sync.Mutex
	open    bool
	openErr error
	closes  int
}

func (c *fakeCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openErr != nil {
		return c.openErr
	}
	c.open = true
	return nil
}

func (c *fakeCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	c.closes++
	return nil
}

func (c *fakeCamera) ReadFrame() (*gocv.Mat, int64, error) {
	return nil, 0, errors.New("fake camera has no frames")
}

func (c *fakeCamera) SetFPS(fps int) {}
func (c *fakeCamera) FPS() int       { return 15 }

func (c *fakeCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *fakeCamera) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

// closeCountingDetector wraps the mock detector to record Close calls.
type closeCountingDetector struct {
	detector.MockDetector
	mu     sync.Mutex
	closes int
}

func (d *closeCountingDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	return nil
}

func (d *closeCountingDetector) closeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.Default()
	cfg.IdleFPS = 50
	cfg.ActiveFPS = 100
	cfg.IdleTimeoutMs = 500

	return New(cfg, globe.GenerateCatalog(5, 1))
}

func recvUpdate(t *testing.T, ch <-chan Update, timeout time.Duration) Update {
	t.Helper()

	select {
	case u := <-ch:
		return u
	case <-time.After(timeout):
		t.Fatal("timed out waiting for pipeline update")
		return Update{}
	}
}

func expectNoUpdate(t *testing.T, ch <-chan Update) {
	t.Helper()

	select {
	case u := <-ch:
		t.Fatalf("unexpected update: %+v", u)
	default:
	}
}

func TestApp_StartStopLifecycle(t *testing.T) {
	a := newTestApp(t)

	cam := &fakeCamera{}
	det := &closeCountingDetector{}
	a.SetCamera(cam)
	a.SetDetector(det)

	if got := a.Status().State; got != StateStopped {
		t.Fatalf("initial state = %s, want %s", got, StateStopped)
	}

	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if got := a.Status().State; got != StateRunning {
		t.Errorf("state after start = %s, want %s", got, StateRunning)
	}
	if !cam.IsOpen() {
		t.Error("camera should be open while running")
	}

	a.Stop()

	if got := a.Status().State; got != StateStopped {
		t.Errorf("state after stop = %s, want %s", got, StateStopped)
	}
	if cam.closeCount() == 0 {
		t.Error("camera was not closed")
	}
	if det.closeCount() == 0 {
		t.Error("detector was not closed")
	}
	if !a.waitStopped(time.Second) {
		t.Error("pipeline did not stop")
	}
}

func TestApp_WaitStoppedObservesPipelineExit(t *testing.T) {
	a := newTestApp(t)

	// Never started: nothing to wait for.
	if !a.waitStopped(time.Second) {
		t.Fatal("waitStopped should succeed before any start")
	}

	a.SetCamera(&fakeCamera{})
	a.SetDetector(&closeCountingDetector{})

	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// The loop is running, so its done channel must still be open.
	if a.waitStopped(20 * time.Millisecond) {
		t.Fatal("waitStopped should time out while the pipeline is running")
	}

	a.Stop()

	// Stop signals the goroutine; waiting must observe its actual exit,
	// not just the cleared stop channel.
	if !a.waitStopped(time.Second) {
		t.Error("pipeline goroutine did not exit after stop")
	}
}

func TestApp_StartCameraFailureThenRetry(t *testing.T) {
	a := newTestApp(t)

	cam := &fakeCamera{openErr: errors.New("device busy")}
	a.SetCamera(cam)
	a.SetDetector(&closeCountingDetector{})

	if err := a.Start(); err == nil {
		t.Fatal("expected start to fail")
	}

	st := a.Status()
	if st.State != StateFailed {
		t.Errorf("state = %s, want %s", st.State, StateFailed)
	}
	if st.Error == "" {
		t.Error("failed status should carry the error message")
	}

	// Device freed up; a manual retry must recover.
	cam.mu.Lock()
	cam.openErr = nil
	cam.mu.Unlock()

	if err := a.Retry(); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := a.Status().State; got != StateRunning {
		t.Errorf("state after retry = %s, want %s", got, StateRunning)
	}

	a.Stop()
}

func TestApp_ClassifyPinchIncrementsScale(t *testing.T) {
	a := newTestApp(t)

	ch, cancel := a.Subscribe()
	defer cancel()

	hands := []detector.HandLandmarks{detector.PinchLandmarks()}
	a.classify(hands, 100)

	u := recvUpdate(t, ch, time.Second)
	if !u.Gesture.Pinching {
		t.Errorf("expected pinching state, got %+v", u.Gesture)
	}
	if u.Control.PVScale < 0.019 || u.Control.PVScale > 0.021 {
		t.Errorf("PVScale = %f, want one scale step", u.Control.PVScale)
	}

	// Same pose on later frames is a near-duplicate: throttled, no
	// further increments.
	a.classify(hands, 133)
	a.classify(hands, 166)
	expectNoUpdate(t, ch)

	if got := a.Controls().PVScale(); got > 0.021 {
		t.Errorf("throttled frames must not increment scale, got %f", got)
	}
}

func TestApp_ClassifyStaleTimestampIgnored(t *testing.T) {
	a := newTestApp(t)

	ch, cancel := a.Subscribe()
	defer cancel()

	a.classify([]detector.HandLandmarks{detector.PinchLandmarks()}, 100)
	recvUpdate(t, ch, time.Second)

	// A frozen video timestamp means a stale frame: even a different pose
	// is not reprocessed.
	a.classify([]detector.HandLandmarks{detector.FistLandmarks()}, 100)
	expectNoUpdate(t, ch)

	if !a.Controls().AutoRotate() {
		t.Error("stale fist frame must not toggle rotation")
	}
}

func TestApp_ClassifyNeutralOnHandLoss(t *testing.T) {
	a := newTestApp(t)

	ch, cancel := a.Subscribe()
	defer cancel()

	a.classify([]detector.HandLandmarks{detector.PinchLandmarks()}, 100)
	recvUpdate(t, ch, time.Second)

	a.classify(nil, 200)
	u := recvUpdate(t, ch, time.Second)

	if u.Gesture.Pinching || u.Gesture.Fist || u.Gesture.PalmOpen {
		t.Errorf("hand loss should emit neutral state, got %+v", u.Gesture)
	}
	if u.Control.PVScale < 0.019 {
		t.Errorf("hand loss must preserve control values, PVScale = %f", u.Control.PVScale)
	}
	if !u.Control.AutoRotate {
		t.Error("hand loss must preserve rotation state")
	}
}

func TestApp_ApplyManual(t *testing.T) {
	a := newTestApp(t)

	ch, cancel := a.Subscribe()
	defer cancel()

	a.ApplyManual(control.Snapshot{AutoRotate: false, PVScale: 2.5})

	u := recvUpdate(t, ch, time.Second)
	if u.Control.AutoRotate {
		t.Error("manual write should have disabled rotation")
	}
	if u.Control.PVScale != 1 {
		t.Errorf("PVScale = %f, want clamp to 1", u.Control.PVScale)
	}
}

// solidFrame returns a single-color BGR frame. Caller closes it.
func solidFrame(val float64) *gocv.Mat {
	m := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC3)
	m.SetTo(gocv.NewScalar(val, val, val, 0))
	return &m
}

func TestApp_PipelineEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping OpenCV-dependent test in short mode")
	}

	dark := solidFrame(0)
	bright := solidFrame(255)
	defer dark.Close()
	defer bright.Close()

	a := newTestApp(t)

	// Alternating frames keep the motion detector in active mode.
	cam := capture.NewMockCamera([]*gocv.Mat{dark, bright}, true)
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.PinchLandmarks()})

	a.SetCamera(cam)
	a.SetDetector(det)

	ch, cancel := a.Subscribe()
	defer cancel()

	if err := a.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer a.Stop()

	u := recvUpdate(t, ch, 3*time.Second)
	if !u.Gesture.Pinching {
		t.Errorf("expected a pinch emission, got %+v", u.Gesture)
	}
	if u.Control.PVScale <= 0 {
		t.Errorf("pinch should have raised PVScale, got %f", u.Control.PVScale)
	}
	if u.TimestampMs <= 0 {
		t.Errorf("update should carry the frame timestamp, got %d", u.TimestampMs)
	}
}
