package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/abhisek/wealthnav/internal/store"
)

func TestNewProvider_Disabled(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{}, nil)
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "anthropic"}, nil); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock", Retry: retryConfig()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected mock model, got %q", p.ModelID())
	}
}

func TestWithLogging_RecordsEvents(t *testing.T) {
	s, err := store.Open("file:llm_logging?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"note":"ok"}`), Usage: newUsage(10, 5)},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
	)
	p := WithLogging(mock, "mock", s.EventRepo())
	ctx := WithPurpose(context.Background(), "advisor")

	if _, err := p.Generate(ctx, Request{System: "sys", Messages: UserMessage("hello"), Schema: noteSchema}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := p.Generate(ctx, Request{Messages: UserMessage("again")}); err == nil {
		t.Fatal("second call should fail")
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	var ok, failed int
	for _, e := range events {
		if e.Purpose != "advisor" {
			t.Fatalf("unexpected purpose %q", e.Purpose)
		}
		if e.Success {
			ok++
			if e.InputTokens != 10 || e.ResponseBody != `{"note":"ok"}` {
				t.Fatalf("unexpected success event %+v", e)
			}
		} else {
			failed++
			if e.ErrorMessage == "" {
				t.Fatal("expected error message on failed event")
			}
		}
	}
	if ok != 1 || failed != 1 {
		t.Fatalf("expected 1 ok and 1 failed, got %d/%d", ok, failed)
	}
}

func TestWithLogging_NilRepo(t *testing.T) {
	mock := NewMockProvider()
	if WithLogging(mock, "mock", nil) != Provider(mock) {
		t.Fatal("nil repo should return the inner provider")
	}
}

func TestPurposeFrom(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
	if got := PurposeFrom(WithPurpose(context.Background(), "advisor")); got != "advisor" {
		t.Fatalf("expected advisor, got %q", got)
	}
}
