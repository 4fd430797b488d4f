package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wealthnav/internal/store"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List recorded stress-test results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		user, _ := cmd.Flags().GetString("user")

		_, s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.Results().Query(cmd.Context(), user, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No results recorded yet.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-34s  %5s  %s\n", "Seq", "Recorded", "User", "Score", "Level")
		fmt.Println(rule())
		for _, r := range results {
			fmt.Printf("%-6d  %-19s  %-34s  %5d  %s\n",
				r.Sequence,
				r.RecordedAt.Local().Format("2006-01-02 15:04:05"),
				truncate(r.UserID, 34),
				r.Score,
				r.Level,
			)
		}
		return nil
	},
}

func init() {
	resultsCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	resultsCmd.Flags().StringP("user", "u", "", "Only show results for this user ID")
}
