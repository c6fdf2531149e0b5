package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/me/jarvis/internal/config"
	"github.com/me/jarvis/internal/logging"
	"github.com/me/jarvis/internal/server"
	"github.com/me/jarvis/internal/store"
	"github.com/me/jarvis/internal/ui"
)

// sweepInterval is how often idle clients and stale storage are cleaned up.
const sweepInterval = 10 * time.Minute

func main() {
	cfg := config.DefaultServerConfig()

	envFile := flag.String("env-file", ".env", "Optional .env file")
	configFile := flag.String("config", "", "Path to a YAML config file")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.TokenStore, "token-store", cfg.TokenStore, "Token store: sqlite, redis, memory")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite path (default ~/.jarvis/jarvis.db)")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address when --token-store=redis")
	flag.StringVar(&cfg.Backends.NestJSURL, "nest-api", cfg.Backends.NestJSURL, "Primary API base URL")
	flag.StringVar(&cfg.Backends.PythonURL, "python-api", cfg.Backends.PythonURL, "Q&A API base URL")
	flag.BoolVar(&cfg.SecureCookies, "secure-cookies", cfg.SecureCookies, "Mark client cookies Secure (HTTPS)")
	flag.DurationVar(&cfg.CheckInterval, "check-interval", cfg.CheckInterval, "Periodic session re-validation interval")
	flag.DurationVar(&cfg.ClientIdle, "client-idle", cfg.ClientIdle, "Unmount clients idle for this long")
	flag.IntVar(&cfg.MaxClients, "max-clients", cfg.MaxClients, "Clients held in memory at most")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")
	flag.Parse()

	// Precedence: defaults < config file < environment < flags. The second
	// parse puts explicit flags back on top of what the file and env set.
	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *configFile != "" {
		if err := config.LoadFile(*configFile, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
	}
	cfg.ApplyEnv()
	flag.CommandLine.Parse(os.Args[1:])

	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	st, err := openStore(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open token store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate token store: %v\n", err)
		os.Exit(1)
	}

	srv := server.New(cfg, st, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.StartSweeper(ctx, sweepInterval)

	go func() {
		logger.Info("server starting",
			"addr", cfg.Addr,
			"token_store", cfg.TokenStore,
			"nestjs", cfg.Backends.NestJSURL,
			"python", cfg.Backends.PythonURL,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
		os.Exit(1)
	}
	// Stop session timers after the last request has finished.
	srv.Close()
	logger.Info("server stopped")
}

// openStore builds the token store selected by cfg.TokenStore.
func openStore(cfg config.ServerConfig, logger *slog.Logger) (store.Store, error) {
	switch cfg.TokenStore {
	case "memory":
		logger.Warn("using in-memory token store; sessions are lost on restart")
		return store.NewMemoryStore(), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("--redis-addr is required for the redis token store")
		}
		return store.NewRedisStore(context.Background(), cfg.RedisAddr, ui.DefaultStorageRetention, logger)
	case "sqlite", "":
		dbPath := cfg.DBPath
		if dbPath == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("cannot determine home directory: %w", err)
			}
			dir := filepath.Join(home, ".jarvis")
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("cannot create %s: %w", dir, err)
			}
			dbPath = filepath.Join(dir, "jarvis.db")
		}
		st, err := store.NewSQLiteStore(dbPath, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("database ready", "path", dbPath)
		return st, nil
	default:
		return nil, fmt.Errorf("unknown token store %q (want sqlite, redis or memory)", cfg.TokenStore)
	}
}
