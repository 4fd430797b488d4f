package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/abhisek/wealthnav/internal/questionnaire"
)

// TestQuestionnaireScenarios runs the questionnaire feature scenarios.
func TestQuestionnaireScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "questionnaire",
		ScenarioInitializer: initializeQuestionnaireScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{filepath.Join("testdata", "features")},
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

type questionnaireScenario struct {
	engine  *Engine
	last    Outcome
	lastErr error
}

func initializeQuestionnaireScenario(ctx *godog.ScenarioContext) {
	s := &questionnaireScenario{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		s.engine = NewEngine(questionnaire.Default(), NewMemoryStore())
		s.last, s.lastErr = nil, nil
		return ctx, nil
	})

	ctx.Step(`^user "([^"]+)" has started the stress test$`, s.givenStarted)
	ctx.Step(`^"([^"]+)" answers "([^"]*)"$`, s.whenAnswers)
	ctx.Step(`^the session is complete with score (\d+)$`, s.thenCompleteWithScore)
	ctx.Step(`^the tier is "([^"]+)"$`, s.thenTier)
	ctx.Step(`^"([^"]+)" has no active session$`, s.thenNoSession)
	ctx.Step(`^the outcome is "([^"]+)"$`, s.thenOutcome)
	ctx.Step(`^"([^"]+)" is on question (\d+)$`, s.thenOnQuestion)
	ctx.Step(`^the pending selection of "([^"]+)" is "([^"]*)"$`, s.thenPending)
	ctx.Step(`^the submission fails with no active session$`, s.thenNoActiveSessionError)
}

func (s *questionnaireScenario) givenStarted(userID string) error {
	s.engine.Start(userID)
	return nil
}

// whenAnswers submits a comma-separated list of inputs, stopping at the
// first error.
func (s *questionnaireScenario) whenAnswers(userID, inputs string) error {
	for _, in := range strings.Split(inputs, ",") {
		s.last, s.lastErr = s.engine.Submit(context.Background(), userID, strings.TrimSpace(in))
		if s.lastErr != nil {
			return nil
		}
	}
	return nil
}

func (s *questionnaireScenario) complete() (Complete, error) {
	c, ok := s.last.(Complete)
	if !ok {
		return Complete{}, fmt.Errorf("expected complete outcome, got %T (err %v)", s.last, s.lastErr)
	}
	return c, nil
}

func (s *questionnaireScenario) thenCompleteWithScore(score int) error {
	c, err := s.complete()
	if err != nil {
		return err
	}
	if c.Result.Score != score {
		return fmt.Errorf("score = %d, want %d", c.Result.Score, score)
	}
	return nil
}

func (s *questionnaireScenario) thenTier(tier string) error {
	c, err := s.complete()
	if err != nil {
		return err
	}
	if got := c.Result.Tier.String(); got != tier {
		return fmt.Errorf("tier = %s, want %s", got, tier)
	}
	if c.Result.Level != c.Result.Tier.Info().Level {
		return fmt.Errorf("level %q does not match tier %s", c.Result.Level, tier)
	}
	return nil
}

func (s *questionnaireScenario) thenNoSession(userID string) error {
	if s.engine.IsActive(userID) {
		return fmt.Errorf("expected no session for %s", userID)
	}
	return nil
}

func (s *questionnaireScenario) thenOutcome(name string) error {
	if s.lastErr != nil {
		return fmt.Errorf("unexpected error: %w", s.lastErr)
	}
	if got := outcomeName(s.last); got != name {
		return fmt.Errorf("outcome = %s, want %s", got, name)
	}
	return nil
}

func (s *questionnaireScenario) thenOnQuestion(userID string, n int) error {
	q, ok := s.engine.CurrentQuestion(userID)
	if !ok {
		return fmt.Errorf("no current question for %s", userID)
	}
	want := questionnaire.Default().Questions[n-1]
	if q.Text != want.Text {
		return fmt.Errorf("on %q, want %q", q.Text, want.Text)
	}
	return nil
}

func (s *questionnaireScenario) thenPending(userID, values string) error {
	got := strings.Join(s.engine.PendingSelection(userID), "、")
	if got != values {
		return fmt.Errorf("pending = %q, want %q", got, values)
	}
	return nil
}

func (s *questionnaireScenario) thenNoActiveSessionError() error {
	if !errors.Is(s.lastErr, ErrNoActiveSession) {
		return fmt.Errorf("expected ErrNoActiveSession, got %v", s.lastErr)
	}
	return nil
}
