package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// EmailLogRepository records every outgoing send for auditability.
type EmailLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewEmailLogRepository(db *pgxpool.Pool, logger *zap.Logger) *EmailLogRepository {
	return &EmailLogRepository{
		db:     db,
		logger: logger,
	}
}

// LogSend appends one row per outgoing email. draftID and resendID may be
// empty; the log row is still written so the audit trail has no gaps.
func (r *EmailLogRepository) LogSend(ctx context.Context, userID, draftID string, recipients []string, subject, resendID string) error {
	query := `
        INSERT INTO email_sends (user_id, draft_id, recipient_emails, subject, resend_email_id)
        VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''))
    `
	_, err := r.db.Exec(ctx, query, userID, draftID, recipients, subject, resendID)
	if err != nil {
		r.logger.Error("Failed to log email send",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("log email send: %w", err)
	}
	return nil
}
