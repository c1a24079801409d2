package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Bradwave/parabolawhat/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Elenca le ultime risposte date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.AnswerRepo().Recent(cmd.Context(), store.QueryOpts{Limit: limit, SessionID: sessionID})
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}
		printHistory(cmd.OutOrStdout(), records)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of answers to show")
	historyCmd.Flags().String("session", "", "Only answers from this session ID")
}

func printHistory(w io.Writer, records []store.AnswerRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "Nessuna risposta registrata.")
		return
	}
	for _, r := range records {
		mark := "✗"
		if r.Correct {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s  %-20s  %-28s  %s  %+d\n",
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.Mode.DisplayName(),
			truncate("y = "+r.Question, 28),
			mark,
			r.Points,
		)
	}
}
