package app

import (
	"log"
	"time"

	"github.com/renderix/heliosphere/internal/control"
	"github.com/renderix/heliosphere/internal/detector"
	"github.com/renderix/heliosphere/internal/metrics"
)

// runPipeline is the main detection loop that processes frames from the
// camera. It manages the state transitions between idle and active modes
// based on motion detection.
//
// Pipeline logic:
// 1. Start in idle mode (low FPS)
// 2. On motion detected, switch to active mode (higher FPS)
// 3. Run hand detection and gesture classification
// 4. Apply emitted gesture states to the control state
// 5. Fan emissions out to subscribers (WebSocket layer)
// 6. After the idle timeout with no motion, switch back to idle mode
//
// done is closed when the goroutine exits, so teardown can observe actual
// completion rather than just the stop signal.
func (a *App) runPipeline(stopCh, done chan struct{}) {
	defer close(done)

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(a.config.IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			// The batch scale eases toward its target every tick, whether
			// or not a new gesture arrived this frame.
			metrics.BatchScale.Set(float64(a.stations.Step(a.controls.PVScale())))

			frame, timestampMs, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				metrics.FramesSkipped.WithLabelValues("read_error").Inc()
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			if motionDetected {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(a.config.ActiveFPS)
					frameInterval = time.Second / time.Duration(a.config.ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(a.config.IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(a.config.IdleFPS)
					frameInterval = time.Second / time.Duration(a.config.IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")

					// The hand is gone as far as consumers are concerned;
					// let the classifier settle back to neutral.
					frame.Close()
					a.classify(nil, timestampMs)
					continue
				}
			}

			if !activeMode {
				frame.Close()
				metrics.FramesSkipped.WithLabelValues("idle").Inc()
				continue
			}

			hands, err := a.detector.Detect(frame, timestampMs)
			frame.Close()

			if err != nil {
				// One bad frame never stops the loop.
				log.Printf("Error detecting hands: %v", err)
				metrics.FramesSkipped.WithLabelValues("detect_error").Inc()
				continue
			}

			metrics.FramesProcessed.Inc()
			a.classify(hands, timestampMs)
		}
	}
}

// classify feeds one frame's landmarks through the classifier and, when a
// state passes the throttle, applies it to the controls and publishes it.
func (a *App) classify(hands []detector.HandLandmarks, timestampMs int64) {
	state, emit := a.classifier.Classify(hands, timestampMs)
	if !emit {
		metrics.GestureThrottled.Inc()
		return
	}
	metrics.GestureEmissions.Inc()
	a.setLastGesture(state)

	before := a.controls.Snapshot()
	a.binding.Apply(state)
	after := a.controls.Snapshot()

	if before.AutoRotate != after.AutoRotate {
		metrics.ControlWrites.WithLabelValues("auto_rotate").Inc()
	}
	if before.PVScale != after.PVScale {
		metrics.ControlWrites.WithLabelValues("pv_scale").Inc()
	}

	a.publish(Update{
		Gesture:     state,
		Control:     after,
		BatchScale:  a.stations.BatchScale(),
		TimestampMs: timestampMs,
	})
}

// ApplyManual routes a UI-originated control change through the same write
// path the gesture binding uses and notifies subscribers.
func (a *App) ApplyManual(snapshot control.Snapshot) {
	before := a.controls.Snapshot()

	a.controls.SetAutoRotate(snapshot.AutoRotate)
	a.controls.SetPVScale(snapshot.PVScale)

	after := a.controls.Snapshot()
	if before.AutoRotate != after.AutoRotate {
		metrics.ControlWrites.WithLabelValues("auto_rotate").Inc()
	}
	if before.PVScale != after.PVScale {
		metrics.ControlWrites.WithLabelValues("pv_scale").Inc()
	}

	a.publish(Update{
		Gesture:     a.LastGesture(),
		Control:     after,
		BatchScale:  a.stations.BatchScale(),
		TimestampMs: time.Now().UnixMilli(),
	})
}
