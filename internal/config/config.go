// Package config defines the service configuration and its layered loading.
package config

// Config holds all tunables for the service. The gesture thresholds are
// empirical constants tuned for a front-facing camera at arm's length;
// deployments with different framing override them rather than patching
// code.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StaticDir serves the browser globe when non-empty.
	StaticDir string `koanf:"static_dir"`

	// DBPath is the sqlite file holding the station catalog.
	DBPath string `koanf:"db_path"`

	// CameraID selects the capture device.
	CameraID int `koanf:"camera_id"`

	// IdleFPS and ActiveFPS bound the frame loop rate; the pipeline drops
	// to IdleFPS when no motion is seen for IdleTimeoutMs.
	IdleFPS       int `koanf:"idle_fps"`
	ActiveFPS     int `koanf:"active_fps"`
	IdleTimeoutMs int `koanf:"idle_timeout_ms"`

	// MotionThreshold is the percentage of changed pixels that counts as
	// motion.
	MotionThreshold float64 `koanf:"motion_threshold"`

	// Gesture classification thresholds.
	PinchThreshold float64 `koanf:"pinch_threshold"`
	FistThreshold  float64 `koanf:"fist_threshold"`
	PalmThreshold  float64 `koanf:"palm_threshold"`
	EmitDelta      float64 `koanf:"emit_delta"`

	// ScaleStep is the PVScale increment per accepted pinch.
	ScaleStep float64 `koanf:"scale_step"`

	// Globe geometry.
	GlobeRadius   float64 `koanf:"globe_radius"`
	SurfaceOffset float64 `koanf:"surface_offset"`

	// ScaleSmoothing is the per-frame easing factor for the batch scale.
	ScaleSmoothing float64 `koanf:"scale_smoothing"`

	// StationCount and StationSeed control catalog generation.
	StationCount int   `koanf:"station_count"`
	StationSeed  int64 `koanf:"station_seed"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Addr:            ":8080",
		DBPath:          "",
		CameraID:        0,
		IdleFPS:         5,
		ActiveFPS:       15,
		IdleTimeoutMs:   2000,
		MotionThreshold: 1.0,
		PinchThreshold:  0.08,
		FistThreshold:   0.15,
		PalmThreshold:   0.2,
		EmitDelta:       0.05,
		ScaleStep:       0.02,
		GlobeRadius:     5,
		SurfaceOffset:   0.02,
		ScaleSmoothing:  0.1,
		StationCount:    120,
		StationSeed:     1,
	}
}
