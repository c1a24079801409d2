package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bradwave/parabolawhat/internal/llm"
	"github.com/Bradwave/parabolawhat/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded tutor (LLM) requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		events, err := loadLLMEvents(cmd, limit)
		if err != nil {
			return err
		}
		printLLMEvents(cmd.OutOrStdout(), events, purpose)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost per model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		events, err := loadLLMEvents(cmd, 0)
		if err != nil {
			return err
		}
		printLLMUsage(cmd.OutOrStdout(), events)
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. explain)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

func loadLLMEvents(cmd *cobra.Command, limit int) ([]store.LLMRequestEvent, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	st, err := openStore(cmd, cfg)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	events, err := st.EventRepo().RecentLLMRequests(cmd.Context(), limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return events, nil
}

func printLLMEvents(w io.Writer, events []store.LLMRequestEvent, purpose string) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-10s  %-28s  %-6s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 96))
	for _, e := range events {
		if purpose != "" && e.Purpose != purpose {
			continue
		}
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-10s  %-28s  %-6d  %-6d  %-7d  %s\n",
			e.Sequence,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Purpose, 10),
			truncate(e.Model, 28),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

type modelUsage struct {
	model   string
	calls   int
	failed  int
	in, out int
}

func printLLMUsage(w io.Writer, events []store.LLMRequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	byModel := map[string]*modelUsage{}
	for _, e := range events {
		u, ok := byModel[e.Model]
		if !ok {
			u = &modelUsage{model: e.Model}
			byModel[e.Model] = u
		}
		u.calls++
		if !e.Success {
			u.failed++
		}
		u.in += e.InputTokens
		u.out += e.OutputTokens
	}
	usage := make([]*modelUsage, 0, len(byModel))
	for _, u := range byModel {
		usage = append(usage, u)
	}
	sort.Slice(usage, func(i, j int) bool { return usage[i].calls > usage[j].calls })

	fmt.Fprintf(w, "%-32s  %6s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Failed", "Input", "Output", "Cost")
	fmt.Fprintln(w, strings.Repeat("─", 82))
	for _, u := range usage {
		cost := "?"
		if c := llm.LookupCost(u.model); c != nil {
			cost = formatCost(c.Cost(u.in, u.out))
		}
		fmt.Fprintf(w, "%-32s  %6d  %6d  %10d  %10d  %10s\n",
			truncate(u.model, 32), u.calls, u.failed, u.in, u.out, cost)
	}
	fmt.Fprintln(w, strings.Repeat("─", 82))

	total, unpriced := llm.EstimateCost(events)
	label := "TOTAL"
	if unpriced > 0 {
		label = fmt.Sprintf("TOTAL (%d unpriced calls)", unpriced)
	}
	fmt.Fprintf(w, "%-32s  %6d  %6s  %10s  %10s  %10s\n", label, len(events), "", "", "", formatCost(total))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
