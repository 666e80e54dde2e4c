package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/muratams/cabot/internal/api"
	"github.com/muratams/cabot/internal/config"
	"github.com/muratams/cabot/internal/db"
	"github.com/muratams/cabot/internal/ingest"
	"github.com/muratams/cabot/internal/people"
	"github.com/muratams/cabot/internal/people/viz"
	"github.com/muratams/cabot/internal/security"
	"github.com/muratams/cabot/internal/units"
	"github.com/muratams/cabot/internal/version"
)

var (
	listen      = flag.String("listen", ":8081", "HTTP listen address")
	udpAddr     = flag.String("udp-addr", ":2380", "UDP bind address for detection batches")
	dbFile      = flag.String("db", "tracker_data.db", "Path to the SQLite database file (empty disables persistence)")
	configFile  = flag.String("config", "", "Path to a JSON tuning config file")
	plotDir     = flag.String("plot-dir", "", "Directory to write trajectory plots on shutdown (empty disables)")
	displayUnit = flag.String("units", units.MPS, "Speed units for display surfaces (mps, mph, kmph, kph)")
	targetFPS   = flag.Float64("target-fps", 15.0, "Expected detection batch rate, used by the health endpoint")
	rcvBuf      = flag.Int("rcvbuf", 1<<20, "UDP receive buffer size in bytes")
	logInterval = flag.Int("log-interval", 10, "Ingest statistics logging interval in seconds")
	showVersion = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("tracker %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if *udpAddr == "" {
		log.Fatal("UDP bind address is required")
	}
	cfg := people.DefaultTrackerConfig()
	if *configFile != "" {
		tuning, err := config.LoadTuningConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
		cfg, err = tuning.Apply(cfg)
		if err != nil {
			log.Fatalf("invalid tuning config: %v", err)
		}
		if tuning.DisplayUnits != nil {
			*displayUnit = *tuning.DisplayUnits
		}
		if tuning.TargetFPS != nil {
			*targetFPS = *tuning.TargetFPS
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid tracker config: %v", err)
	}
	if !units.IsValid(*displayUnit) {
		log.Fatalf("invalid display units %q (valid: %v)", *displayUnit, units.ValidUnits)
	}

	registry := people.NewRegistry(cfg)

	emitters := people.MultiEmitter{people.LogEmitter{}}

	var store *db.TrackStore
	if *dbFile != "" {
		if err := security.ValidateOutputPath(*dbFile); err != nil {
			log.Fatalf("invalid database path: %v", err)
		}
		database, err := db.NewDB(*dbFile)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.MigrateUp(); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		store, err = db.NewTrackStore(database, uuid.New(), cfg, time.Now())
		if err != nil {
			log.Fatalf("failed to create track store: %v", err)
		}
		log.Printf("persisting tracker run %s to %s", store.RunID(), *dbFile)
		emitters = append(emitters, store)
	}

	var recorder *viz.Recorder
	if *plotDir != "" {
		recorder = viz.NewRecorder()
		emitters = append(emitters, recorder)
	}

	listener := ingest.NewUDPListener(ingest.UDPListenerConfig{
		Address:     *udpAddr,
		RcvBuf:      *rcvBuf,
		LogInterval: time.Duration(*logInterval) * time.Second,
		Registry:    registry,
		Emitter:     emitters,
	})

	server := api.NewServer(api.ServerConfig{
		Address:      *listen,
		Registry:     registry,
		Store:        store,
		DisplayUnits: *displayUnit,
		TargetFPS:    *targetFPS,
	})

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := listener.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("UDP listener error: %v", err)
			stop()
		}
		log.Print("UDP listener routine terminated")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Start(ctx); err != nil {
			log.Printf("HTTP server error: %v", err)
		}
		log.Print("HTTP server routine terminated")
	}()

	wg.Wait()

	if recorder != nil && recorder.TrackCount() > 0 {
		if err := recorder.WritePlots(*plotDir); err != nil {
			log.Printf("failed to write plots: %v", err)
		} else {
			log.Printf("wrote trajectory plots to %s", *plotDir)
		}
	}

	log.Print("Graceful shutdown complete")
}
