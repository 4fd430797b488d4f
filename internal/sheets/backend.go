package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/wealthnav/internal/registry"
)

// TimeLayout is how time cells are written and read.
const TimeLayout = "2006/01/02 15:04"

// Column layout of the registration sheet.
const (
	colUserID = iota
	colName
	colPaymentCode
	colRegisteredAt
	colScore
	colLevel
	colTestedAt
	colStatus
	colNote
	numCols
)

// Backend implements registry.Backend on a spreadsheet. Rows are found by
// their LINE user ID in column A.
type Backend struct {
	api *client
	loc *time.Location

	// mu serializes find-then-write sequences so two events for the same
	// user cannot both append a row.
	mu sync.Mutex
}

var _ registry.Backend = (*Backend)(nil)

// Find returns the row for userID, or registry.ErrNotFound.
func (b *Backend) Find(ctx context.Context, userID string) (registry.Record, error) {
	_, cells, err := b.find(ctx, userID)
	if err != nil {
		return registry.Record{}, err
	}
	return b.parse(cells), nil
}

// Create appends a row for rec. It fails if the user already has one.
func (b *Backend) Create(ctx context.Context, rec registry.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, _, err := b.find(ctx, rec.UserID); err == nil {
		return fmt.Errorf("sheets: row for %s already exists", rec.UserID)
	}

	row := make([]any, numCols)
	row[colUserID] = rec.UserID
	row[colName] = rec.Name
	row[colPaymentCode] = rec.PaymentCode
	row[colRegisteredAt] = b.format(rec.RegisteredAt)
	row[colScore] = ""
	if rec.Score != nil {
		row[colScore] = *rec.Score
	}
	row[colLevel] = rec.Level
	row[colTestedAt] = b.format(rec.TestedAt)
	row[colStatus] = rec.Status.Label()
	row[colNote] = rec.Note
	return b.api.append(ctx, row)
}

// UpdateName overwrites the name cell.
func (b *Backend) UpdateName(ctx context.Context, userID, name string) error {
	return b.set(ctx, userID, map[int]any{colName: name})
}

// Complete fills the payment code and registration time and marks the
// row registered.
func (b *Backend) Complete(ctx context.Context, userID, paymentCode string, at time.Time) error {
	return b.set(ctx, userID, map[int]any{
		colPaymentCode:  paymentCode,
		colRegisteredAt: b.format(at),
		colStatus:       registry.StatusRegistered.Label(),
	})
}

// RecordResult writes the score, level and test time onto the user's row.
// Writing the same result twice leaves the row unchanged.
func (b *Backend) RecordResult(ctx context.Context, userID string, score int, level string, at time.Time) error {
	return b.set(ctx, userID, map[int]any{
		colScore:    score,
		colLevel:    level,
		colTestedAt: b.format(at),
	})
}

func (b *Backend) set(ctx context.Context, userID string, cols map[int]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	row, _, err := b.find(ctx, userID)
	if err != nil {
		return err
	}
	cells := make(map[string]any, len(cols))
	for col, v := range cols {
		cells[fmt.Sprintf("%c%d", 'A'+col, row)] = v
	}
	return b.api.update(ctx, cells)
}

// find returns the 1-based sheet row and its cells.
func (b *Backend) find(ctx context.Context, userID string) (int, []string, error) {
	rows, err := b.api.get(ctx, "A:I")
	if err != nil {
		return 0, nil, err
	}
	for i, cells := range rows {
		if len(cells) > colUserID && strings.TrimSpace(cells[colUserID]) == userID {
			return i + 1, cells, nil
		}
	}
	return 0, nil, registry.ErrNotFound
}

// parse maps a row to a Record. Staff may overwrite the status column with
// their own follow-up labels; any label other than the awaiting-name one
// means the user has registered.
func (b *Backend) parse(cells []string) registry.Record {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	rec := registry.Record{
		UserID:       cell(colUserID),
		Name:         cell(colName),
		PaymentCode:  cell(colPaymentCode),
		RegisteredAt: b.parseTime(cell(colRegisteredAt)),
		Level:        cell(colLevel),
		TestedAt:     b.parseTime(cell(colTestedAt)),
		Note:         cell(colNote),
		Status:       registry.StatusRegistered,
	}
	if registry.ParseLabel(cell(colStatus)) == registry.StatusAwaitingName {
		rec.Status = registry.StatusAwaitingName
	}
	if n, err := strconv.Atoi(cell(colScore)); err == nil {
		rec.Score = &n
	}
	return rec
}

func (b *Backend) format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(b.loc).Format(TimeLayout)
}

func (b *Backend) parseTime(s string) time.Time {
	t, err := time.ParseInLocation(TimeLayout, s, b.loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
