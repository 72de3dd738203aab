package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"creatorpulse/internal/model"
)

// StyleRepository reads the user's writing-style training samples.
type StyleRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewStyleRepository(db *pgxpool.Pool, logger *zap.Logger) *StyleRepository {
	return &StyleRepository{
		db:     db,
		logger: logger,
	}
}

// Latest returns the most recent style profile, or nil when the user has
// never trained one. A missing profile is not an error; generation simply
// proceeds without style guidance.
func (r *StyleRepository) Latest(ctx context.Context, userID string) (*model.StyleProfile, error) {
	query := `
        SELECT training_text
        FROM style_training
        WHERE user_id = $1
        ORDER BY created_at DESC
        LIMIT 1
    `
	var text string
	err := r.db.QueryRow(ctx, query, userID).Scan(&text)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load style training: %w", err)
	}
	return &model.StyleProfile{TrainingText: text}, nil
}
