package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Bradwave/parabolawhat/internal/app"
	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Avvia il quiz a schermo intero",
	RunE:  runPlay,
}

func init() {
	f := playCmd.Flags()
	f.String("mode", "", "Start directly in a mode: draw-plot, pick-plot, pick-eq, type-eq or random")
	f.Bool("memory", false, "Keep stats in memory only; nothing is written to the database")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var mode session.Mode
	if s, _ := cmd.Flags().GetString("mode"); s != "" {
		if mode, err = session.ParseMode(s); err != nil {
			return err
		}
	}
	memory, _ := cmd.Flags().GetBool("memory")

	var st *store.Store
	if !memory {
		if st, err = openStore(cmd, cfg); err != nil {
			return err
		}
		defer st.Close()
	}

	// The full-screen UI owns the terminal, so logs go to a file beside
	// the database (or nowhere in memory mode).
	logPath := ""
	if st != nil && cfg.Driver() == store.DriverSQLite {
		if dsn, err := resolveDSN(cmd, cfg); err == nil && dsn != ":memory:" {
			logPath = filepath.Join(filepath.Dir(dsn), "parabolawhat.log")
		}
	}
	sink, closeLog, err := logSink(logPath)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := newLogger(sink, cfg.LogLevel)

	sess, _, err := newSession(ctx, cfg, st, logger)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		logger.Info("no terminal, falling back to line mode")
		if mode == "" {
			mode = session.ModeRandom
		}
		return newLineQuiz(sess, cmd.InOrStdin(), cmd.OutOrStdout(), 0).run(ctx, mode)
	}

	opts := app.Options{
		Session:    sess,
		Explainer:  newExplainer(ctx, cfg, st, logger),
		SkipSplash: mode != "",
	}
	if st != nil {
		opts.History = st.AnswerRepo()
	}

	if mode != "" {
		if err := sess.Start(mode); err != nil {
			return fmt.Errorf("start %s: %w", mode, err)
		}
	}
	logger.Info("starting tui", "session", sess.ID(), "mode", string(mode), "memory", memory)
	if err := app.Run(opts); err != nil {
		return err
	}
	if sess.State() != session.StateMenu {
		sess.Exit()
	}
	logger.Info("tui closed", "stats", sess.Stats())
	return nil
}
