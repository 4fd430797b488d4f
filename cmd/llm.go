package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/wealthnav/internal/store"
)

const ruleWidth = 84

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect advisor LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetDuration("since")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}
		// Filters apply after the query, so ask for everything when any is set.
		if purpose != "" || failedOnly {
			opts.Limit = 0
		}
		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		shown := 0
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			if failedOnly && e.Success {
				continue
			}
			if limit > 0 && shown == limit {
				break
			}
			if shown == 0 {
				fmt.Printf("%-5s  %-16s  %-10s  %-26s  %11s  %6s  %s\n",
					"ID", "When", "Purpose", "Model", "Tokens", "Ms", "")
				fmt.Println(rule())
			}
			fmt.Printf("%-5d  %-16s  %-10s  %-26s  %5d/%-5d  %6d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("01-02 15:04:05"),
				truncate(e.Purpose, 10),
				truncate(e.Model, 26),
				e.InputTokens, e.OutputTokens,
				e.LatencyMs,
				status(e.Success),
			)
			shown++
		}
		if shown == 0 {
			fmt.Println("No LLM calls recorded.")
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no LLM call with ID %d", id)
		}

		fmt.Printf("#%d  %s  %s\n", e.ID, e.Timestamp.Local().Format(time.DateTime), status(e.Success))
		fmt.Printf("%s / %s  (%s)\n", e.Provider, e.Model, e.Purpose)
		fmt.Printf("%d tokens in, %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
		if e.ErrorMessage != "" {
			fmt.Printf("error: %s\n", e.ErrorMessage)
		}
		printBody("PROMPT", e.RequestBody)
		printBody("REPLY", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise LLM token usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}
		byModel, err := repo.LLMUsageByModel(cmd.Context())
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		printUsage("Purpose", byPurpose, func(u store.LLMUsage) string { return u.Purpose })
		fmt.Println()
		printUsage("Model", byModel, func(u store.LLMUsage) string { return u.Model })
		return nil
	},
}

// printUsage renders one usage table with a totals row, keyed by label.
func printUsage(heading string, rows []store.LLMUsage, label func(store.LLMUsage) string) {
	fmt.Printf("%-30s  %6s  %10s  %10s  %8s\n", heading, "Calls", "Input", "Output", "Avg Ms")
	fmt.Println(rule())

	var total store.LLMUsage
	for _, u := range rows {
		fmt.Printf("%-30s  %6d  %10d  %10d  %8d\n",
			truncate(label(u), 30), u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		total.Calls += u.Calls
		total.InputTokens += u.InputTokens
		total.OutputTokens += u.OutputTokens
	}
	fmt.Println(rule())
	fmt.Printf("%-30s  %6d  %10d  %10d\n", "total", total.Calls, total.InputTokens, total.OutputTokens)
}

func printBody(title, body string) {
	fmt.Printf("\n── %s %s\n", title, strings.Repeat("─", max(ruleWidth-len(title)-4, 0)))
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	fmt.Println(body)
}

func status(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAILED"
}

func rule() string { return strings.Repeat("─", ruleWidth) }

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show calls made for this purpose (e.g. advisor)")
	llmListCmd.Flags().Duration("since", 0, "Only show calls newer than this (e.g. 24h)")
	llmListCmd.Flags().Bool("failed", false, "Only show failed calls")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
