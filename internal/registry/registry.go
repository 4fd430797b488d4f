// Package registry tracks which chat users have signed up, and records
// their latest stress-test result against that sign-up.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned by backends when the user has no row.
var ErrNotFound = errors.New("registration not found")

// ErrNotAwaitingName is returned by SubmitName when the user is not in
// the middle of registering.
var ErrNotAwaitingName = errors.New("registration is not awaiting a name")

// ErrInvalidName is returned by SubmitName for empty or overlong names.
var ErrInvalidName = errors.New("invalid name")

// Status is the registration state of a user.
type Status string

const (
	StatusUnknown      Status = ""
	StatusAwaitingName Status = "awaiting_name"
	StatusRegistered   Status = "registered"
)

// Label is the customer-status text shown to staff in the spreadsheet.
func (s Status) Label() string {
	switch s {
	case StatusAwaitingName:
		return "註冊中"
	case StatusRegistered:
		return "待追蹤"
	default:
		return ""
	}
}

// ParseLabel reverses Label. Unknown text yields StatusUnknown.
func ParseLabel(label string) Status {
	switch strings.TrimSpace(label) {
	case "註冊中":
		return StatusAwaitingName
	case "待追蹤":
		return StatusRegistered
	default:
		return StatusUnknown
	}
}

// Record is one registration row.
type Record struct {
	UserID       string `validate:"required"`
	Name         string `validate:"max=100"`
	PaymentCode  string `validate:"omitempty,len=5,numeric"`
	RegisteredAt time.Time
	Score        *int
	Level        string
	TestedAt     time.Time
	Status       Status `validate:"oneof=awaiting_name registered"`
	Note         string
}

// Backend persists registration rows.
type Backend interface {
	Find(ctx context.Context, userID string) (Record, error)
	Create(ctx context.Context, rec Record) error
	UpdateName(ctx context.Context, userID, name string) error
	Complete(ctx context.Context, userID, paymentCode string, at time.Time) error
	RecordResult(ctx context.Context, userID string, score int, level string, at time.Time) error
}

// Service implements the registration conversation on top of a Backend.
type Service struct {
	backend  Backend
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a Service.
func NewService(backend Backend) *Service {
	return &Service{
		backend:  backend,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
	}
}

// State returns the user's registration status, StatusUnknown if the user
// has never started registering.
func (s *Service) State(ctx context.Context, userID string) (Status, error) {
	rec, err := s.backend.Find(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return StatusUnknown, nil
	}
	if err != nil {
		return StatusUnknown, fmt.Errorf("find registration: %w", err)
	}
	return rec.Status, nil
}

// Begin starts registration. An already registered user is reported as
// such; anyone else ends up awaiting their name, reusing an unfinished
// row when there is one.
func (s *Service) Begin(ctx context.Context, userID string) (Status, error) {
	rec, err := s.backend.Find(ctx, userID)
	switch {
	case err == nil:
		if rec.Status == StatusRegistered {
			return StatusRegistered, nil
		}
		return StatusAwaitingName, nil
	case errors.Is(err, ErrNotFound):
	default:
		return StatusUnknown, fmt.Errorf("find registration: %w", err)
	}

	rec = Record{UserID: userID, Status: StatusAwaitingName}
	if err := s.validate.Struct(rec); err != nil {
		return StatusUnknown, fmt.Errorf("invalid registration: %w", err)
	}
	if err := s.backend.Create(ctx, rec); err != nil {
		return StatusUnknown, fmt.Errorf("create registration: %w", err)
	}
	return StatusAwaitingName, nil
}

// SubmitName stores name for a user awaiting it and completes the
// registration. No payment code is collected.
func (s *Service) SubmitName(ctx context.Context, userID, name string) (Record, error) {
	name = strings.TrimSpace(name)
	if err := s.validate.Var(name, "required,max=100"); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	rec, err := s.backend.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, ErrNotAwaitingName
		}
		return Record{}, fmt.Errorf("find registration: %w", err)
	}
	if rec.Status != StatusAwaitingName {
		return Record{}, ErrNotAwaitingName
	}

	if err := s.backend.UpdateName(ctx, userID, name); err != nil {
		return Record{}, fmt.Errorf("update name: %w", err)
	}
	now := s.now()
	if err := s.backend.Complete(ctx, userID, "", now); err != nil {
		return Record{}, fmt.Errorf("complete registration: %w", err)
	}

	rec.Name = name
	rec.RegisteredAt = now
	rec.Status = StatusRegistered
	return rec, nil
}

// RecordResult stores a finished test against the user's registration.
// Results of users who never registered are not kept on a row. It
// satisfies the session result sink.
func (s *Service) RecordResult(ctx context.Context, userID string, score int, level string) error {
	err := s.backend.RecordResult(ctx, userID, score, level, s.now())
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}
