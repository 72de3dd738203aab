// Package aggregator assembles the content items handed to the newsletter
// generator. Fetching live source content (RSS, YouTube, Twitter) happens
// upstream; here the user's connected sources are shaped into generator
// input, with a placeholder item when no sources exist so generation never
// starves.
package aggregator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"creatorpulse/internal/model"
)

// SourceLister is the slice of the source repository the aggregator needs.
type SourceLister interface {
	ListActive(ctx context.Context, userID string) ([]*model.Source, error)
}

type Aggregator struct {
	sources SourceLister
	logger  *zap.Logger
}

func New(sources SourceLister, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		sources: sources,
		logger:  logger,
	}
}

// Aggregate returns one content item per active source.
func (a *Aggregator) Aggregate(ctx context.Context, userID string) ([]model.ContentItem, error) {
	sources, err := a.sources.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregate content: %w", err)
	}

	items := make([]model.ContentItem, 0, len(sources))
	for _, src := range sources {
		items = append(items, model.ContentItem{
			Title:      "Latest from " + src.Identifier,
			Content:    fmt.Sprintf("Content from %s source: %s", src.SourceType, src.Identifier),
			SourceType: src.SourceType,
			Identifier: src.Identifier,
		})
	}

	if len(items) == 0 {
		a.logger.Warn("No content sources found, using placeholder",
			zap.String("user_id", userID),
		)
		items = append(items, model.ContentItem{
			Title:   "Your Daily Newsletter",
			Content: "Stay tuned for curated content from your sources!",
		})
	}

	return items, nil
}
