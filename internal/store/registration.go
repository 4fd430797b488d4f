package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/wealthnav/internal/registry"
)

// RegistrationRepo stores registrations in the registrations table and
// implements registry.Backend.
type RegistrationRepo struct {
	drv     *entsql.Driver
	results ResultRepo
}

var _ registry.Backend = (*RegistrationRepo)(nil)

var registrationColumns = []string{
	"user_id", "name", "payment_code", "registered_at", "score",
	"level", "tested_at", "status", "note",
}

// Find returns the registration for userID, or registry.ErrNotFound.
func (r *RegistrationRepo) Find(ctx context.Context, userID string) (registry.Record, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(registrationColumns...).
		From(b.Table(registrationsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return registry.Record{}, fmt.Errorf("query registration: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return registry.Record{}, fmt.Errorf("query registration: %w", err)
		}
		return registry.Record{}, registry.ErrNotFound
	}

	var (
		rec                    registry.Record
		status                 string
		registeredAt, testedAt sql.NullTime
		score                  sql.NullInt64
	)
	err := rows.Scan(&rec.UserID, &rec.Name, &rec.PaymentCode, &registeredAt, &score,
		&rec.Level, &testedAt, &status, &rec.Note)
	if err != nil {
		return registry.Record{}, fmt.Errorf("scan registration: %w", err)
	}
	rec.Status = registry.Status(status)
	rec.RegisteredAt = registeredAt.Time
	rec.TestedAt = testedAt.Time
	if score.Valid {
		s := int(score.Int64)
		rec.Score = &s
	}
	return rec, nil
}

// Create inserts rec. The user ID is the primary key, so a second
// registration for the same user fails.
func (r *RegistrationRepo) Create(ctx context.Context, rec registry.Record) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(registrationsTable.Name).
		Columns("user_id", "name", "payment_code", "level", "status", "note", "created_at").
		Values(rec.UserID, rec.Name, rec.PaymentCode, rec.Level, string(rec.Status), rec.Note, time.Now().UTC()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// UpdateName sets the captured name.
func (r *RegistrationRepo) UpdateName(ctx context.Context, userID, name string) error {
	return r.update(ctx, userID, func(u *entsql.UpdateBuilder) {
		u.Set("name", name)
	})
}

// Complete stores the payment code and registration time and marks the
// user registered.
func (r *RegistrationRepo) Complete(ctx context.Context, userID, paymentCode string, at time.Time) error {
	return r.update(ctx, userID, func(u *entsql.UpdateBuilder) {
		u.Set("payment_code", paymentCode).
			Set("registered_at", at.UTC()).
			Set("status", string(registry.StatusRegistered))
	})
}

// RecordResult appends the result to the history and, if the user is
// registered, stores it on their row. An unregistered user yields
// registry.ErrNotFound after the history is written. A retry carrying the
// same result ID does not add a second history row.
func (r *RegistrationRepo) RecordResult(ctx context.Context, userID string, score int, level string, at time.Time) error {
	if _, err := r.results.Append(ctx, userID, score, level, at); err != nil {
		return err
	}
	return r.update(ctx, userID, func(u *entsql.UpdateBuilder) {
		u.Set("score", score).
			Set("level", level).
			Set("tested_at", at.UTC())
	})
}

func (r *RegistrationRepo) update(ctx context.Context, userID string, set func(*entsql.UpdateBuilder)) error {
	u := entsql.Dialect(dialect.SQLite).Update(registrationsTable.Name)
	set(u)
	query, args := u.Where(entsql.EQ("user_id", userID)).Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}
	if n == 0 {
		return registry.ErrNotFound
	}
	return nil
}
