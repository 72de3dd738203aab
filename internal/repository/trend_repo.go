package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TrendRepository stores keyword frequencies per run so spikes can be
// detected against a historical baseline.
type TrendRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTrendRepository(db *pgxpool.Pool, logger *zap.Logger) *TrendRepository {
	return &TrendRepository{
		db:     db,
		logger: logger,
	}
}

// HistoricalCounts returns aggregated keyword counts for the trailing
// window in days.
func (r *TrendRepository) HistoricalCounts(ctx context.Context, userID string, days int) (map[string]int, error) {
	if days <= 0 {
		days = 7
	}
	query := `
        SELECT keyword, SUM(count)
        FROM trend_keywords
        WHERE user_id = $1 AND recorded_at > NOW() - ($2 || ' days')::interval
        GROUP BY keyword
    `
	rows, err := r.db.Query(ctx, query, userID, days)
	if err != nil {
		return nil, fmt.Errorf("load historical keywords: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var keyword string
		var count int
		if err := rows.Scan(&keyword, &count); err != nil {
			return nil, err
		}
		counts[keyword] = count
	}
	return counts, rows.Err()
}

// StoreCounts appends this run's keyword frequencies.
func (r *TrendRepository) StoreCounts(ctx context.Context, userID string, counts map[string]int) error {
	for keyword, count := range counts {
		_, err := r.db.Exec(ctx,
			`INSERT INTO trend_keywords (user_id, keyword, count) VALUES ($1, $2, $3)`,
			userID, keyword, count,
		)
		if err != nil {
			r.logger.Warn("Failed to store trend keyword",
				zap.String("keyword", keyword),
				zap.Error(err),
			)
			return fmt.Errorf("store trend keyword: %w", err)
		}
	}
	return nil
}
