package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/wealthnav/internal/assessment"
)

// resultRepo implements ResultRepo on the results table.
type resultRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

// Append records a finished test once. The row is keyed by the result ID
// carried in ctx (a fresh one when absent); appending the same ID again
// returns the stored row unchanged.
func (r *resultRepo) Append(ctx context.Context, userID string, score int, level string, at time.Time) (ResultRecord, error) {
	id := assessment.ResultIDFrom(ctx)
	if id == "" {
		id = uuid.NewString()
	} else if rec, ok, err := r.byID(ctx, id); err != nil || ok {
		return rec, err
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return ResultRecord{}, fmt.Errorf("next sequence: %w", err)
	}

	rec := ResultRecord{
		ID:         id,
		Sequence:   seqNum,
		UserID:     userID,
		Score:      score,
		Level:      level,
		RecordedAt: at.UTC(),
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(resultsTable.Name).
		Columns("sequence", "result_id", "user_id", "score", "level", "recorded_at").
		Values(rec.Sequence, rec.ID, rec.UserID, rec.Score, rec.Level, rec.RecordedAt).
		OnConflict(entsql.ConflictColumns("result_id"), entsql.DoNothing()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return ResultRecord{}, fmt.Errorf("save result: %w", err)
	}
	return rec, nil
}

func (r *resultRepo) byID(ctx context.Context, id string) (ResultRecord, bool, error) {
	recs, err := r.query(ctx, entsql.EQ("result_id", id), QueryOpts{Limit: 1})
	if err != nil || len(recs) == 0 {
		return ResultRecord{}, false, err
	}
	return recs[0], true, nil
}

func (r *resultRepo) Query(ctx context.Context, userID string, opts QueryOpts) ([]ResultRecord, error) {
	var pred *entsql.Predicate
	if userID != "" {
		pred = entsql.EQ("user_id", userID)
	}
	return r.query(ctx, pred, opts)
}

func (r *resultRepo) query(ctx context.Context, pred *entsql.Predicate, opts QueryOpts) ([]ResultRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select("result_id", "sequence", "user_id", "score", "level", "recorded_at").
		From(b.Table(resultsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	if pred != nil {
		sel.Where(pred)
	}
	applyQueryOpts(sel, opts, "recorded_at")

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.UserID, &rec.Score, &rec.Level, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
