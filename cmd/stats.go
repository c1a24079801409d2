package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Bradwave/parabolawhat/internal/session"
	"github.com/Bradwave/parabolawhat/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Mostra le statistiche complessive",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		totals, err := st.StatsRepo().Load(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		tally, err := st.AnswerRepo().TallyByMode(ctx)
		if err != nil {
			return fmt.Errorf("tally answers: %w", err)
		}
		printStats(cmd.OutOrStdout(), totals, tally)
		return nil
	},
}

func printStats(w io.Writer, totals session.Stats, tally []store.ModeTally) {
	fmt.Fprintf(w, "Punteggio:  %d\n", totals.TotalScore)
	fmt.Fprintf(w, "Risposte:   %d\n", totals.Attempts)
	fmt.Fprintf(w, "Corrette:   %d\n", totals.Correct)
	fmt.Fprintf(w, "Precisione: %d%%\n", totals.Accuracy())

	if len(tally) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-20s  %8s  %8s  %6s\n", "Modalità", "Risposte", "Corrette", "Punti")
	for _, t := range tally {
		fmt.Fprintf(w, "%-20s  %8d  %8d  %6d\n", t.Mode.DisplayName(), t.Answered, t.Correct, t.Points)
	}
}
