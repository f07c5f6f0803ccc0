package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/slideforge/slideforge-backend/internal/models"
)

// StoreErrorKind classifies history store failures.
type StoreErrorKind string

const (
	StoreUnavailable  StoreErrorKind = "STORE_UNAVAILABLE"
	StoreWriteFailed  StoreErrorKind = "WRITE_FAILED"
	StoreReadFailed   StoreErrorKind = "READ_FAILED"
	StoreDeleteFailed StoreErrorKind = "DELETE_FAILED"
)

type StoreError struct {
	Kind StoreErrorKind
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// HistoryRepo persists presentation snapshots. Every save is an
// append; records are immutable until deleted.
type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Save snapshots the presentation under a fresh id with the current
// wall-clock timestamp. The deck is serialized, so later mutation of
// the caller's copy never reaches the stored record.
func (r *HistoryRepo) Save(ctx context.Context, p models.Presentation) (*models.HistoryRecord, error) {
	record := &models.HistoryRecord{
		ID:           uuid.New(),
		Timestamp:    time.Now().UnixMilli(),
		Presentation: p.Clone(),
		Thumbnail:    p.Thumbnail(),
	}

	snapshot, err := record.MarshalPresentation()
	if err != nil {
		return nil, &StoreError{Kind: StoreWriteFailed, Err: err}
	}

	query := `INSERT INTO history_records (id, created_at_ms, presentation, thumbnail)
		VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query,
		record.ID.String(), record.Timestamp, string(snapshot), record.Thumbnail,
	); err != nil {
		return nil, &StoreError{Kind: StoreWriteFailed, Err: err}
	}

	return record, nil
}

// List returns every stored record, newest first. Timestamp ties fall
// back to id order so the result is stable.
func (r *HistoryRepo) List(ctx context.Context) ([]models.HistoryRecord, error) {
	query := `SELECT id, created_at_ms, presentation, thumbnail
		FROM history_records ORDER BY created_at_ms DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &StoreError{Kind: StoreReadFailed, Err: err}
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var (
			idStr    string
			snapshot string
			rec      models.HistoryRecord
		)
		if err := rows.Scan(&idStr, &rec.Timestamp, &snapshot, &rec.Thumbnail); err != nil {
			return nil, &StoreError{Kind: StoreReadFailed, Err: err}
		}
		if rec.ID, err = uuid.Parse(idStr); err != nil {
			return nil, &StoreError{Kind: StoreReadFailed, Err: err}
		}
		if err := json.Unmarshal([]byte(snapshot), &rec.Presentation); err != nil {
			return nil, &StoreError{Kind: StoreReadFailed, Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Kind: StoreReadFailed, Err: err}
	}

	return records, nil
}

// Delete removes a record by id. Deleting an id that is not present
// succeeds; delete is idempotent.
func (r *HistoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM history_records WHERE id = ?", id.String(),
	); err != nil {
		return &StoreError{Kind: StoreDeleteFailed, Err: err}
	}
	return nil
}
