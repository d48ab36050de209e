package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nanonav/internal/api"
	"nanonav/pkg/config"
	"nanonav/pkg/core"
	"nanonav/pkg/db"
	"nanonav/pkg/geo"
	"nanonav/pkg/logging"
	"nanonav/pkg/nav"
	"nanonav/pkg/probe"
	"nanonav/pkg/sim"
	"nanonav/pkg/site"
	"nanonav/pkg/store"
	"nanonav/pkg/tracker"
	"nanonav/pkg/version"
)

const defaultConfigPath = "configs/nanonav.yaml"

var (
	configPath = flag.String("config", defaultConfigPath, "Path to the config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// .env is optional; it only feeds the NANONAV_* overrides
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("nanonav Started", "version", version.String())

	dbConn, st, err := initDB(appCfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	catalog, err := loadCatalog(appCfg)
	if err != nil {
		return err
	}
	slog.Info("Airfield catalog loaded", "path", appCfg.Nav.Catalog, "airfields", catalog.Len())

	body := geo.Body{Name: appCfg.Nav.BodyName, Radius: appCfg.Nav.BodyRadius.Meters()}
	navigator := nav.New(catalog, nav.Options{
		Body:      body,
		Proximity: appCfg.Nav.Proximity.Meters(),
		Logger:    slog.With("component", "nav"),
	})
	if name := appCfg.Nav.Destination; name != "" {
		if err := navigator.SetDestinationByName(name); err != nil {
			slog.Warn("Configured destination ignored", "airfield", name, "error", err)
		}
	}

	simClient := initializeSimClient(appCfg, body)
	defer simClient.Close()

	// Startup Probes
	results := probe.Run(ctx, []probe.Probe{
		probe.Database(dbConn),
		probe.Catalog(catalog),
		probe.Simulator(simClient),
	})
	if err := probe.AnalyzeResults(results); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	stats := tracker.New()
	recorder := store.NewRecorder(st).WithTracker(stats)
	slog.Info("Session started", "session", recorder.SessionID())

	// Telemetry Handler (must be created before scheduler to receive updates)
	telH := api.NewTelemetryHandler()

	sched := setupScheduler(appCfg, simClient, recorder, navigator, telH, body)
	go sched.Start(ctx)

	return runServer(ctx, appCfg, navigator, telH, recorder, st, api.NewStatsHandler(stats, recorder.SessionID()))
}

func initDB(appCfg *config.Config) (*db.DB, store.Store, error) {
	dbConn, err := db.Init(appCfg.DB.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if retention := time.Duration(appCfg.DB.EventRetention); retention > 0 {
		n, err := dbConn.PruneNavEvents(retention)
		if err != nil {
			slog.Warn("Failed to prune navigation events", "error", err)
		} else if n > 0 {
			slog.Info("Pruned navigation events", "count", n, "older_than", retention)
		}
	}
	return dbConn, store.NewSQLiteStore(dbConn), nil
}

// loadCatalog reads the airfield catalog, writing the built-in one first if
// the file does not exist yet.
func loadCatalog(appCfg *config.Config) (*site.Catalog, error) {
	path := appCfg.Nav.Catalog
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
		if err := config.SaveAirfields(path, config.DefaultAirfields()); err != nil {
			return nil, err
		}
		slog.Info("Default airfield catalog written", "path", path)
	}

	entries, err := config.LoadAirfields(path)
	if err != nil {
		return nil, err
	}

	d := appCfg.Nav.Defaults
	catalog, err := site.FromConfig(entries, site.Defaults{
		ILSCone:    d.Cone,
		ILSRange:   d.Range.Meters(),
		Glideslope: d.Glideslope,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build airfield catalog: %w", err)
	}
	return catalog, nil
}

func setupScheduler(cfg *config.Config, simClient sim.Client, rec core.EventRecorder, navigator *nav.Navigator, telH *api.TelemetryHandler, body geo.Body) *core.Scheduler {
	// The navigator must see the sample before anything reading its snapshot.
	sched := core.NewScheduler(cfg, simClient, navigator, telH)

	sched.AddJob(core.NewBeamJob(navigator, rec))
	sched.AddJob(core.NewLandingJob(navigator, rec))

	sched.AddJob(core.NewTimeJob("NavStatus", time.Duration(cfg.Ticker.StatusInterval), func(c context.Context, t sim.Telemetry) {
		s := navigator.Snapshot()
		if !s.HasDestination() {
			return
		}
		slog.Info("Navigation status",
			"airfield", s.Airfield, "runway", s.Runway,
			"dist", s.DistanceToRunway, "hdev", s.HorizontalDeviation, "vdev", s.VerticalDeviation,
			"in_beam", s.InBeam, "alt", t.AltitudeMSL, "gs", t.GroundSpeed)
	}))

	sched.AddJob(core.NewDistanceJob("Progress", 5000, func(c context.Context, t sim.Telemetry) {
		slog.Debug("Vessel progress", "lat", t.Latitude, "lon", t.Longitude, "alt", t.AltitudeMSL)
	}).WithBody(body))

	return sched
}

func runServer(ctx context.Context, cfg *config.Config, navigator *nav.Navigator, telH *api.TelemetryHandler, rec core.EventRecorder, st store.Store, statsH *api.StatsHandler) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	srv := api.NewServer(cfg.Server.Address,
		telH,
		api.NewNavHandler(navigator, telH, rec),
		api.NewEventsHandler(st),
		api.NewStreamHandler(navigator, time.Duration(cfg.Ticker.TelemetryLoop)),
		statsH,
		shutdownFunc,
	)
	srv.Handler = loggingMiddleware(srv.Handler)
	// Streams are hijacked and outlive Shutdown; tie them to the run context instead.
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.RequestLogger.Info("Request Processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
