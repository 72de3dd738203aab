package trends

import (
	"strings"
	"testing"

	"creatorpulse/internal/model"
)

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("The Quantum Computing breakthrough will change everything for developers")

	want := map[string]bool{
		"quantum": true, "computing": true, "breakthrough": true,
		"change": true, "everything": true, "developers": true,
	}
	for _, kw := range got {
		if !want[kw] {
			t.Errorf("unexpected keyword %q", kw)
		}
		delete(want, kw)
	}
	for kw := range want {
		t.Errorf("missing keyword %q", kw)
	}
}

func TestExtractKeywordsDropsStopAndShortWords(t *testing.T) {
	for _, kw := range ExtractKeywords("the and for with a to in big car") {
		t.Errorf("expected nothing, got %q", kw)
	}
}

func TestAnalyzeContent(t *testing.T) {
	items := []model.ContentItem{
		{Title: "Rust adoption grows", Content: "rust rust memory safety"},
		{Title: "Memory safety in rust", Content: "adoption keeps growing"},
	}

	keywords := AnalyzeContent(items, 3)
	if len(keywords) == 0 {
		t.Fatal("expected keywords")
	}
	if keywords[0].Keyword != "rust" {
		t.Fatalf("expected rust as top keyword, got %q", keywords[0].Keyword)
	}
	if keywords[0].Count != 4 {
		t.Fatalf("expected count 4 for rust, got %d", keywords[0].Count)
	}
	if keywords[0].RelevanceScore <= 0 {
		t.Fatal("expected positive relevance score")
	}
	if len(keywords) > 3 {
		t.Fatalf("topN not respected: %d keywords", len(keywords))
	}
}

func TestDetectSpikes(t *testing.T) {
	current := []Keyword{
		{Keyword: "quantum", Count: 10},
		{Keyword: "steady", Count: 3},
	}
	historical := map[string]int{
		"quantum": 2, // 5x jump
		"steady":  3, // flat
	}

	result := DetectSpikes(current, historical, 2.0)
	if !result[0].IsSpike {
		t.Fatal("quantum should be flagged as spike")
	}
	if result[0].SpikeFactor != 5.0 {
		t.Fatalf("expected 5x spike factor, got %v", result[0].SpikeFactor)
	}
	if result[1].IsSpike {
		t.Fatal("steady keyword wrongly flagged as spike")
	}
}

func TestDetectSpikesNoHistory(t *testing.T) {
	current := []Keyword{{Keyword: "fresh", Count: 5}}
	result := DetectSpikes(current, nil, 2.0)
	if len(result) != 1 || result[0].IsSpike {
		t.Fatalf("without history, keywords pass through unflagged: %+v", result)
	}
}

func TestFormatForNewsletter(t *testing.T) {
	out := FormatForNewsletter([]Keyword{
		{Keyword: "quantum", Count: 10, IsSpike: true, SpikeFactor: 5},
		{Keyword: "steady", Count: 3},
	}, 5)

	if !strings.Contains(out, "What's Trending") {
		t.Fatal("missing section header")
	}
	if !strings.Contains(out, "Quantum") || !strings.Contains(out, "5.0x spike") {
		t.Fatalf("spike line malformed:\n%s", out)
	}
	if !strings.Contains(out, "**Steady** - 3 mentions") {
		t.Fatalf("plain line malformed:\n%s", out)
	}

	if FormatForNewsletter(nil, 5) != "" {
		t.Fatal("empty input should render nothing")
	}
}
