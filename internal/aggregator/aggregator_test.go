package aggregator

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"creatorpulse/internal/model"
)

type fakeSources struct {
	sources []*model.Source
	err     error
}

func (f *fakeSources) ListActive(ctx context.Context, userID string) ([]*model.Source, error) {
	return f.sources, f.err
}

func TestAggregateOneItemPerSource(t *testing.T) {
	agg := New(&fakeSources{sources: []*model.Source{
		{SourceType: "rss", Identifier: "blog.example.com/feed"},
		{SourceType: "youtube", Identifier: "UC123"},
	}}, zap.NewNop())

	items, err := agg.Aggregate(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 items, got %d", len(items))
	}
	if items[0].SourceType != "rss" || items[1].Identifier != "UC123" {
		t.Fatalf("items not mapped from sources: %+v", items)
	}
}

func TestAggregatePlaceholderWhenNoSources(t *testing.T) {
	agg := New(&fakeSources{}, zap.NewNop())

	items, err := agg.Aggregate(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Title != "Your Daily Newsletter" {
		t.Fatalf("want placeholder item, got %+v", items)
	}
}

func TestAggregatePropagatesStoreError(t *testing.T) {
	agg := New(&fakeSources{err: errors.New("connection refused")}, zap.NewNop())

	if _, err := agg.Aggregate(context.Background(), "u1"); err == nil {
		t.Fatal("want store error propagated")
	}
}
