package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Bradwave/parabolawhat/internal/session"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Gioca qualche domanda riga per riga, senza salvare nulla",
	Long: `Mostra le domande come testo e legge una risposta per riga.
Funziona anche senza terminale interattivo. Scrivi q per uscire.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		modeFlag, _ := cmd.Flags().GetString("mode")
		mode, err := session.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")

		logger := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
		sess, _, err := newSession(cmd.Context(), cfg, nil, logger)
		if err != nil {
			return err
		}
		return newLineQuiz(sess, cmd.InOrStdin(), cmd.OutOrStdout(), count).run(cmd.Context(), mode)
	},
}

func init() {
	previewCmd.Flags().String("mode", string(session.ModeRandom), "pick-plot, pick-eq, type-eq or random")
	previewCmd.Flags().IntP("count", "n", 5, "Number of questions (0 = until q or end of input)")
}
