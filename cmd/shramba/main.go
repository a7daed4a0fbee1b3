package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/shramba/internal/api"
	"github.com/erazemk/shramba/internal/auth"
	"github.com/erazemk/shramba/internal/barcode"
	"github.com/erazemk/shramba/internal/catalog"
	"github.com/erazemk/shramba/internal/config"
	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/metrics"
	"github.com/erazemk/shramba/internal/recipes"
	"github.com/erazemk/shramba/internal/store"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("shramba", flag.ContinueOnError)
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: shramba [flags]

Flags:
  -d, -db <path>          SQLite database path (env SHRAMBA_DB_PATH, default: shramba.db)
  -a, -addr <host:port>   listen address (env SHRAMBA_ADDR, default: :8080)
  -l, -log <path>         log file path (env SHRAMBA_LOG_PATH, default: stdout/stderr only)
  -h, -help               show this help and exit

Other settings are read from SHRAMBA_* environment variables or a .env file.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.LogPath, cfg.Level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	database, err := openDatabase(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// Generated and persisted on first run.
		jwtSecret, err = store.GetJWTSecret(context.Background(), database)
		if err != nil {
			return fmt.Errorf("loading JWT secret: %w", err)
		}
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	routerCfg := api.Config{
		DB:       database,
		Issuer:   auth.NewIssuer(jwtSecret),
		Catalog:  catalog.NewClient(catalog.WithHTTPClient(httpClient), catalog.WithBaseURL(cfg.OpenFoodFactsBaseURL)),
		Barcodes: barcode.NewZbar(cfg.ZbarimgPath),
	}

	if cfg.SpoonacularAPIKey != "" {
		rc, err := recipes.NewClient(cfg.SpoonacularAPIKey,
			recipes.WithHTTPClient(httpClient),
			recipes.WithBaseURL(cfg.SpoonacularBaseURL),
		)
		if err != nil {
			return fmt.Errorf("configuring recipes: %w", err)
		}
		routerCfg.Recipes = rc
	} else {
		slog.Warn("SHRAMBA_SPOONACULAR_API_KEY not set, recipe suggestions disabled")
	}

	mux := http.NewServeMux()
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		routerCfg.Metrics = metrics.New(reg)
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", api.NewRouter(routerCfg))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.Addr, "metrics", cfg.MetricsEnabled)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}

	slog.Info("server stopped, closing database")
	return nil
}

// openDatabase opens the database file, creating it if needed, and applies
// pending migrations.
func openDatabase(path string) (*sql.DB, error) {
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(context.Background(), database); err != nil {
		database.Close()
		if fresh {
			os.Remove(path)
		}
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	version, err := db.Version(database)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("reading schema version: %w", err)
	}

	slog.Info("database ready", "path", path, "created", fresh, "schema_version", version)
	return database, nil
}
