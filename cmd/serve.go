package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Bradwave/parabolawhat/internal/api"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz as a JSON HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, then :8080)")
	serveCmd.Flags().Bool("memory", false, "Keep stats in memory only")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	memory, _ := cmd.Flags().GetBool("memory")
	var st *store.Store
	if !memory {
		if st, err = openStore(cmd, cfg); err != nil {
			return err
		}
		defer st.Close()
	}

	sess, gen, err := newSession(ctx, cfg, st, logger)
	if err != nil {
		return err
	}
	srv, err := api.New(api.Options{
		Generator:   gen,
		Policy:      cfg.Scoring,
		Session:     sess,
		Explainer:   newExplainer(ctx, cfg, st, logger),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		RequestLog:  os.Stderr,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.Addr, "session", sess.ID(), "memory", memory)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sess.State() != session.StateMenu {
		sess.Exit()
	}
	return nil
}
