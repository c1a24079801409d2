package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bradwave/parabolawhat/internal/config"
	"github.com/Bradwave/parabolawhat/internal/explain"
	"github.com/Bradwave/parabolawhat/internal/llm"
	"github.com/Bradwave/parabolawhat/internal/problemgen"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "parabolawhat",
	Short: "Quiz sulle parabole nel terminale",
	Long: `ParabolaWhat: allenati a riconoscere le parabole y = ax² + bx + c.

Disegna il grafico con il mouse, scegli tra quattro grafici o quattro
equazioni, oppure scrivi l'equazione di una parabola data.`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Database DSN or SQLite file path (overrides PARABOLA_DB and the config file)")
	pf.String("config", "", "Path to config.toml (default $XDG_CONFIG_HOME/parabolawhat/config.toml)")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().AddFlagSet(playCmd.Flags())

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the config file, the environment and --verbose.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// resolveDSN returns the database DSN using --db (highest priority), then
// the resolved config, then the default SQLite path.
func resolveDSN(cmd *cobra.Command, cfg config.Config) (string, error) {
	dsn, _ := cmd.Flags().GetString("db")
	if dsn == "" {
		dsn = cfg.DBDSN
	}
	if cfg.Driver() == store.DriverPostgres {
		if dsn == "" {
			return "", errors.New("postgres needs a DSN (--db or PARABOLA_DB)")
		}
		return dsn, nil
	}
	if dsn == "" {
		return store.DefaultDBPath()
	}
	if dsn != ":memory:" {
		return dsn, store.EnsureDir(dsn)
	}
	return dsn, nil
}

func openStore(cmd *cobra.Command, cfg config.Config) (*store.Store, error) {
	dsn, err := resolveDSN(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(cfg.Driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// newSession builds a quiz session. st may be nil, in which case lifetime
// stats live in memory and answers are not recorded.
func newSession(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) (*session.Session, *problemgen.Generator, error) {
	gen, err := problemgen.New(cfg.Generator, nil)
	if err != nil {
		return nil, nil, err
	}
	opts := session.Options{
		Generator: gen,
		Policy:    cfg.Scoring,
		Stats:     &store.MemoryStats{},
		Logger:    logger,
	}
	if st != nil {
		opts.Stats = st.StatsRepo()
		opts.Recorder = st.AnswerRepo()
	}
	sess, err := session.New(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return sess, gen, nil
}

// newExplainer builds the optional LLM tutor. Without a configured
// provider the returned service is disabled, never nil.
func newExplainer(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) *explain.Service {
	var events store.EventRepo
	if st != nil {
		events = st.EventRepo()
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, events, logger)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Debug("llm provider not configured, explanations disabled")
		return explain.NewService(nil, explain.DefaultConfig())
	case err != nil:
		logger.Warn("llm provider unavailable, explanations disabled", "err", err)
		return explain.NewService(nil, explain.DefaultConfig())
	}
	logger.Debug("llm provider ready", "provider", provider.Name(), "model", provider.ModelID())
	return explain.NewService(provider, explain.DefaultConfig())
}

// logSink opens the append-only log file, or discards when logPath is
// empty.
func logSink(logPath string) (io.Writer, func(), error) {
	if logPath == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
