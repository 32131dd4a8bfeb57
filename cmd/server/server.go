// Command server runs the crew communication backend: the roster store, the
// in-memory status registry and the polling API used by the console and
// remote pages.
//
// Usage:
//
//	server [-p <port>] [-d <db file>] [--config crewcom.yaml] [--log-level debug]
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	crewHandler "github.com/quipper/poc/crewcom/internal/controller/http/crew"
	"github.com/quipper/poc/crewcom/internal/config"
	"github.com/quipper/poc/crewcom/internal/crewstatus"
	rosterSqlite "github.com/quipper/poc/crewcom/internal/repositories/roster/sqlite"
	"github.com/quipper/poc/crewcom/pkg/common/logger"
)

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Crew go-live request server",
		Long: `Serves the crew status polling API.

Crew members request to go live from the remote page; the mixing console
polls /crewstatus/ and acknowledges requests with /resetstatus/.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, os.Getenv)
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	cmd.Flags().IntP("port", "p", config.DefaultPort, "TCP port to listen on")
	cmd.Flags().StringP("db", "d", config.DefaultDBPath, "roster database file")
	cmd.Flags().StringP("config", "c", "", "optional YAML config file")
	cmd.Flags().String("log-level", config.DefaultLogLevel, "debug, info, warn or error")
	return cmd
}

// resolveConfig layers defaults, the config file, the environment and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, getenv func(string) string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath, _ = cmd.Flags().GetString("db")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newRouter(h *crewHandler.Handler) http.Handler {
	router := chi.NewRouter()
	const maxBodySize = 64 << 10
	router.Use(middleware.RequestSize(maxBodySize))
	router.Use(middleware.Recoverer)
	router.Mount("/", h.Router())
	return withCORS(router)
}

func run(cfg *config.Config) error {
	logger.Initialize(cfg.LogLevel)
	logger.Info("starting server")

	rosterRepo, err := rosterSqlite.NewSQLiteRepo(cfg.DBPath)
	if err != nil {
		logger.Error("init roster repo: %v", err)
		return err
	}
	defer rosterRepo.Disconnect()

	h := crewHandler.NewHandler(rosterRepo, crewstatus.NewRegistry())
	if err := h.Resync(context.Background()); err != nil {
		logger.Error("load roster: %v", err)
		return err
	}

	addr := cfg.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           newRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening on %s (roster %s)", addr, cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("listen: %v", err)
			return err
		}
		return nil
	case <-stop:
	}
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration())
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown: %v", err)
	}
	logger.Info("server stopped")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
