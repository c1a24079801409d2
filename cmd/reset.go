package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Azzera le statistiche complessive",
	Long: `Azzera punteggio, risposte e corrette. La cronologia delle risposte
resta nel database.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprint(cmd.OutOrStdout(), "Sei sicuro di voler resettare le statistiche? [s/N] ")
			sc := bufio.NewScanner(cmd.InOrStdin())
			if !sc.Scan() || !confirmed(sc.Text()) {
				fmt.Fprintln(cmd.OutOrStdout(), "Annullato.")
				return nil
			}
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.StatsRepo().Clear(cmd.Context()); err != nil {
			return fmt.Errorf("reset stats: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Statistiche azzerate.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func confirmed(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sì", "y", "yes":
		return true
	}
	return false
}
