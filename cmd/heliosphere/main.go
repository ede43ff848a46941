package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/renderix/heliosphere/internal/app"
	"github.com/renderix/heliosphere/internal/config"
	"github.com/renderix/heliosphere/internal/gesture"
	"github.com/renderix/heliosphere/internal/globe"
	"github.com/renderix/heliosphere/internal/server"
	"github.com/renderix/heliosphere/internal/store"
	"github.com/renderix/heliosphere/internal/tray"
)

func main() {
	fmt.Println("Heliosphere - Gesture-Controlled PV Globe")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".heliosphere")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dbDir, "heliosphere.db")
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	catalog, err := loadOrGenerateCatalog(st, cfg)
	if err != nil {
		log.Fatalf("Failed to prepare station catalog: %v", err)
	}
	fmt.Printf("Station catalog ready: %d stations\n", len(catalog))

	a := app.New(cfg, catalog)

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		fmt.Printf("Serving static files from: %s\n", staticDir)
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     st,
		App:       a,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// A failed camera is not fatal: the globe still serves and the tray
	// offers a retry.
	if err := a.Start(); err != nil {
		log.Printf("Gesture subsystem failed to start: %v", err)
	}

	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnRetry(func() {
		if err := a.Retry(); err != nil {
			log.Printf("Gesture subsystem retry failed: %v", err)
		}
	})
	t.OnOpen(func() {
		log.Printf("Globe available at http://localhost%s/", cfg.Addr)
	})
	t.OnQuit(a.Stop)

	go watchStatus(a, t)

	// Blocks until quit is chosen from the menu.
	t.Run()
}

// loadOrGenerateCatalog returns the persisted station catalog, generating
// and persisting a fresh one when the store is empty or the configured
// catalog size changed.
func loadOrGenerateCatalog(st *store.Store, cfg *config.Config) ([]globe.StationRecord, error) {
	count, err := st.Stations().Count()
	if err != nil {
		return nil, err
	}

	if count == cfg.StationCount {
		return st.Stations().List()
	}

	catalog := globe.GenerateCatalog(cfg.StationCount, cfg.StationSeed)
	if err := st.Stations().ReplaceAll(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// watchStatus mirrors the pipeline state and last gesture into the tray
// menu.
func watchStatus(a *app.App, t *tray.Tray) {
	updates, cancel := a.Subscribe()
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case u := <-updates:
			t.SetLastGesture(gestureName(u.Gesture))
		case <-ticker.C:
			st := a.Status()
			t.SetStatus(string(st.State), st.State == app.StateFailed)
		}
	}
}

// gestureName renders a gesture state as a short menu label.
func gestureName(g gesture.State) string {
	switch {
	case g.Pinching:
		return "pinch"
	case g.Fist:
		return "fist"
	case g.PalmOpen:
		return "open palm"
	default:
		return ""
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.heliosphere/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".heliosphere", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
