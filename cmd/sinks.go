package cmd

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/abhisek/wealthnav/internal/advisor"
	"github.com/abhisek/wealthnav/internal/config"
	"github.com/abhisek/wealthnav/internal/llm"
	"github.com/abhisek/wealthnav/internal/questionnaire"
	"github.com/abhisek/wealthnav/internal/session"
	"github.com/abhisek/wealthnav/internal/store"
)

// historySink appends every finished test to the results table.
type historySink struct {
	repo store.ResultRepo
}

func (h historySink) RecordResult(ctx context.Context, userID string, score int, level string) error {
	_, err := h.repo.Append(ctx, userID, score, level, time.Now())
	return err
}

// fanout delivers a result to each sink in turn.
type fanout []session.ResultSink

func (f fanout) RecordResult(ctx context.Context, userID string, score int, level string) error {
	var errs []error
	for _, s := range f {
		if err := s.RecordResult(ctx, userID, score, level); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newAdvisor returns nil when the advisor is switched off or no LLM
// provider is configured.
func newAdvisor(ctx context.Context, cfg config.Config, bank questionnaire.Bank, repo store.EventRepo) (*advisor.Advisor, error) {
	if !cfg.AdvisorEnabled {
		return nil, nil
	}
	llmCfg, err := llm.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	provider, err := llm.NewProvider(ctx, llmCfg, repo)
	if errors.Is(err, llm.ErrDisabled) {
		log.Printf("advisor: no LLM provider configured, notes disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Printf("advisor: using %s (%s)", llmCfg.Provider, provider.ModelID())
	return advisor.New(provider, bank, advisor.DefaultConfig()), nil
}
