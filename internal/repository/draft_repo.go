package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"creatorpulse/internal/model"
)

// DraftRepository persists generated newsletter drafts.
type DraftRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDraftRepository(db *pgxpool.Pool, logger *zap.Logger) *DraftRepository {
	return &DraftRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores a fresh draft and returns its id.
func (r *DraftRepository) Save(ctx context.Context, d *model.Draft) (string, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = model.DraftStatusDraft
	}

	query := `
        INSERT INTO drafts (id, user_id, title, content, llm_provider, generation_time_ms, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `
	_, err := r.db.Exec(ctx, query,
		d.ID, d.UserID, d.Title, d.Content, d.LLMProvider, d.GenerationTimeMS, d.Status,
	)
	if err != nil {
		r.logger.Error("Failed to save draft",
			zap.String("user_id", d.UserID),
			zap.Error(err),
		)
		return "", fmt.Errorf("save draft: %w", err)
	}

	r.logger.Info("Draft saved",
		zap.String("draft_id", d.ID),
		zap.String("user_id", d.UserID),
		zap.String("provider", d.LLMProvider),
		zap.Int("generation_time_ms", d.GenerationTimeMS),
	)
	return d.ID, nil
}

// ListRecent returns the user's latest drafts, newest first.
func (r *DraftRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*model.Draft, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
        SELECT id, user_id, title, content, llm_provider, generation_time_ms,
               status, recipient_count, created_at, sent_at
        FROM drafts
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*model.Draft
	for rows.Next() {
		var d model.Draft
		err := rows.Scan(
			&d.ID, &d.UserID, &d.Title, &d.Content, &d.LLMProvider, &d.GenerationTimeMS,
			&d.Status, &d.RecipientCount, &d.CreatedAt, &d.SentAt,
		)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, &d)
	}
	return drafts, rows.Err()
}

// UpdateStatus marks a draft sent or failed.
func (r *DraftRepository) UpdateStatus(ctx context.Context, userID, draftID, status string, sentAt *time.Time, recipientCount int) error {
	query := `
        UPDATE drafts
        SET status = $3, sent_at = $4, recipient_count = $5
        WHERE id = $2 AND user_id = $1
    `
	_, err := r.db.Exec(ctx, query, userID, draftID, status, sentAt, recipientCount)
	if err != nil {
		r.logger.Error("Failed to update draft status",
			zap.String("draft_id", draftID),
			zap.Error(err),
		)
		return fmt.Errorf("update draft status: %w", err)
	}
	return nil
}
