package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"creatorpulse/internal/model"
)

// SourceRepository reads the user's connected content sources.
type SourceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSourceRepository(db *pgxpool.Pool, logger *zap.Logger) *SourceRepository {
	return &SourceRepository{
		db:     db,
		logger: logger,
	}
}

// ListActive returns the user's active sources.
func (r *SourceRepository) ListActive(ctx context.Context, userID string) ([]*model.Source, error) {
	query := `
        SELECT id, user_id, source_type, identifier, active, added_at
        FROM sources
        WHERE user_id = $1 AND active = TRUE
        ORDER BY added_at
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []*model.Source
	for rows.Next() {
		var s model.Source
		if err := rows.Scan(&s.ID, &s.UserID, &s.SourceType, &s.Identifier, &s.Active, &s.AddedAt); err != nil {
			return nil, err
		}
		sources = append(sources, &s)
	}
	return sources, rows.Err()
}
