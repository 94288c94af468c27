package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SubmissionRepository persists submission slots and their variant state.
type SubmissionRepository struct {
	db *sql.DB
}

// EnsureSlots upserts one pending submission row per key, in order-index
// order. Existing rows are left untouched (ON CONFLICT DO NOTHING), so
// re-provisioning never disturbs an in-flight or completed upload. Safe to
// retry; either all inserts apply or the transaction rolls back.
func (r *SubmissionRepository) EnsureSlots(ctx context.Context, participantID, domain string, keys []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for i, key := range keys {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO submissions (id, participant_id, domain, order_index, key, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (key) DO NOTHING`,
			uuid.NewString(), participantID, domain, i, key, StatusPending)
		if err != nil {
			return fmt.Errorf("ensure slot %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// GetByKey loads one submission by its original storage key.
func (r *SubmissionRepository) GetByKey(ctx context.Context, key string) (*Submission, error) {
	s := &Submission{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, participant_id, domain, order_index, key, thumbnail_key, preview_key,
		       status, captured_at, camera_model, created_at, updated_at
		FROM submissions WHERE key = $1`, key).
		Scan(&s.ID, &s.ParticipantID, &s.Domain, &s.OrderIndex, &s.Key, &s.ThumbnailKey,
			&s.PreviewKey, &s.Status, &s.CapturedAt, &s.CameraModel, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("submission %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select submission %s: %w", key, err)
	}
	return s, nil
}

// MarkUploaded transitions a submission to uploaded. Re-confirming an
// already-uploaded or processed submission is allowed; the status is set
// back to uploaded so the variant worker runs again against the same key.
func (r *SubmissionRepository) MarkUploaded(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE submissions SET status = $1, updated_at = now() WHERE key = $2`,
		StatusUploaded, key)
	if err != nil {
		return fmt.Errorf("mark uploaded %s: %w", key, err)
	}
	return oneRow(res, key)
}

// SetVariants records the generated variant keys and capture metadata and
// transitions the submission to processed. Last write wins on repeats.
func (r *SubmissionRepository) SetVariants(ctx context.Context, key, thumbnailKey, previewKey string, capturedAt *time.Time, cameraModel string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE submissions
		SET thumbnail_key = $1, preview_key = $2, status = $3,
		    captured_at = $4, camera_model = NULLIF($5, ''), updated_at = now()
		WHERE key = $6`,
		thumbnailKey, previewKey, StatusProcessed, capturedAt, cameraModel, key)
	if err != nil {
		return fmt.Errorf("set variants %s: %w", key, err)
	}
	return oneRow(res, key)
}

// ResetByKeys clears variant keys and capture metadata and returns the
// submissions to pending. Used by the reset-uploads path alongside object
// deletion.
func (r *SubmissionRepository) ResetByKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE submissions
		SET thumbnail_key = NULL, preview_key = NULL, captured_at = NULL,
		    camera_model = NULL, status = $1, updated_at = now()
		WHERE key = ANY($2)`,
		StatusPending, keys)
	if err != nil {
		return fmt.Errorf("reset submissions: %w", err)
	}
	return nil
}

// ListByParticipant returns a participant's slots in order-index order.
func (r *SubmissionRepository) ListByParticipant(ctx context.Context, participantID string) ([]*Submission, error) {
	return r.list(ctx, `
		SELECT id, participant_id, domain, order_index, key, thumbnail_key, preview_key,
		       status, captured_at, camera_model, created_at, updated_at
		FROM submissions WHERE participant_id = $1 ORDER BY order_index`, participantID)
}

// ListUploadedByDomain returns every submission in the domain that has an
// uploaded original (uploaded or processed), ordered by key. Feeds exports
// and reprocessing.
func (r *SubmissionRepository) ListUploadedByDomain(ctx context.Context, domain string) ([]*Submission, error) {
	return r.list(ctx, `
		SELECT id, participant_id, domain, order_index, key, thumbnail_key, preview_key,
		       status, captured_at, camera_model, created_at, updated_at
		FROM submissions WHERE domain = $1 AND status <> 'pending' ORDER BY key`, domain)
}

// ListExportFiles returns every uploaded original in the domain together
// with its participant's class name, ordered by class then key so export
// archives come out with a stable per-class layout.
func (r *SubmissionRepository) ListExportFiles(ctx context.Context, domain string) ([]ExportFile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.key, c.name
		FROM submissions s
		JOIN participants p ON p.id = s.participant_id
		JOIN competition_classes c ON c.id = p.class_id
		WHERE s.domain = $1 AND s.status <> 'pending'
		ORDER BY c.name, s.key`, domain)
	if err != nil {
		return nil, fmt.Errorf("select export files: %w", err)
	}
	defer rows.Close()

	var result []ExportFile
	for rows.Next() {
		var f ExportFile
		if err := rows.Scan(&f.Key, &f.ClassName); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *SubmissionRepository) list(ctx context.Context, query string, args ...any) ([]*Submission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	defer rows.Close()

	var result []*Submission
	for rows.Next() {
		s := &Submission{}
		if err := rows.Scan(&s.ID, &s.ParticipantID, &s.Domain, &s.OrderIndex, &s.Key,
			&s.ThumbnailKey, &s.PreviewKey, &s.Status, &s.CapturedAt, &s.CameraModel,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func oneRow(res sql.Result, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("submission %s: %w", key, ErrNotFound)
	}
	return nil
}
