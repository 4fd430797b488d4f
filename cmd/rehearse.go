package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/wealthnav/internal/app"
	"github.com/abhisek/wealthnav/internal/questionnaire"
	"github.com/abhisek/wealthnav/internal/session"
)

var rehearseCmd = &cobra.Command{
	Use:   "rehearse",
	Short: "Take the stress test in the terminal",
	Long:  "Runs the same questionnaire engine the bot uses, with results recorded to the local history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRehearse(cmd)
	},
}

func runRehearse(cmd *cobra.Command) error {
	cfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	bank, err := questionnaire.LoadOrDefault(cfg.QuestionsFile)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}

	engine := session.NewEngine(bank, nil, session.WithSink(historySink{repo: st.Results()}))

	opts := app.Options{AdvisorTimeout: cfg.AdvisorTimeout}
	adv, err := newAdvisor(cmd.Context(), cfg, bank, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Advisor notes will be unavailable.")
	} else if adv != nil {
		opts.Advisor = adv
	}

	// Log lines would corrupt the alternate screen.
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	return app.Run(engine, opts)
}
