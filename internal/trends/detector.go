// Package trends does simple keyword-frequency trend detection over the
// aggregated content of one user, with optional spike detection against a
// stored historical baseline.
package trends

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"creatorpulse/internal/model"
)

const (
	minKeywordLength      = 4
	defaultSpikeThreshold = 2.0
)

var wordPattern = regexp.MustCompile(`\b[a-z]+\b`)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		the be to of and a in that have i it for not on with he as you
		do at this but his by from they we say her she or an will my one
		all would there their what so up out if about who get which go
		me when make can like time no just him know take people into
		year your good some could them see other than then now look only
		come its over think also back after use two how our work first
		well way even new want because any these give day most us is was are`) {
		stopWords[w] = struct{}{}
	}
}

// Keyword is one trending keyword with its frequency and score.
type Keyword struct {
	Keyword        string  `json:"keyword"`
	Count          int     `json:"count"`
	RelevanceScore float64 `json:"relevance_score"`
	IsSpike        bool    `json:"is_spike,omitempty"`
	SpikeFactor    float64 `json:"spike_factor,omitempty"`
}

// ExtractKeywords pulls lowercase keywords out of free text, dropping stop
// words and anything shorter than four characters.
func ExtractKeywords(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minKeywordLength {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// AnalyzeContent counts keywords across all content items and returns the
// topN most frequent, scored.
func AnalyzeContent(items []model.ContentItem, topN int) []Keyword {
	if topN <= 0 {
		topN = 20
	}

	counts := make(map[string]int)
	for _, item := range items {
		text := item.Title + " " + item.Content
		for _, kw := range ExtractKeywords(text) {
			counts[kw]++
		}
	}

	trending := make([]Keyword, 0, len(counts))
	for kw, count := range counts {
		trending = append(trending, Keyword{
			Keyword:        kw,
			Count:          count,
			RelevanceScore: relevance(kw, count, len(items)),
		})
	}

	sort.Slice(trending, func(i, j int) bool {
		if trending[i].Count != trending[j].Count {
			return trending[i].Count > trending[j].Count
		}
		return trending[i].Keyword < trending[j].Keyword
	})

	if len(trending) > topN {
		trending = trending[:topN]
	}
	return trending
}

// DetectSpikes flags keywords whose current count exceeds the historical
// baseline by the threshold factor. With no history, the current top
// keywords pass through unflagged.
func DetectSpikes(current []Keyword, historical map[string]int, threshold float64) []Keyword {
	if threshold <= 0 {
		threshold = defaultSpikeThreshold
	}
	if len(historical) == 0 {
		if len(current) > 10 {
			return current[:10]
		}
		return current
	}

	total := 0
	for _, c := range historical {
		total += c
	}
	avgBaseline := float64(total) / float64(len(historical))
	if avgBaseline < 1 {
		avgBaseline = 1
	}

	result := make([]Keyword, 0, len(current))
	for _, kw := range current {
		baseline := avgBaseline
		if b, ok := historical[kw.Keyword]; ok {
			baseline = float64(b)
		}
		if baseline < 1 {
			baseline = 1
		}

		factor := float64(kw.Count) / baseline
		if factor >= threshold {
			kw.IsSpike = true
			kw.SpikeFactor = factor
		}
		result = append(result, kw)
	}
	return result
}

// FormatForNewsletter renders the trending keywords as the markdown section
// prepended to the generated newsletter.
func FormatForNewsletter(keywords []Keyword, maxTrends int) string {
	if len(keywords) == 0 {
		return ""
	}
	if maxTrends > 0 && len(keywords) > maxTrends {
		keywords = keywords[:maxTrends]
	}

	var b strings.Builder
	b.WriteString("## 🔥 What's Trending\n\n")

	for _, kw := range keywords {
		title := titleCase(kw.Keyword)
		if kw.IsSpike {
			emoji := "📈"
			if kw.SpikeFactor > 3 {
				emoji = "🚀"
			}
			fmt.Fprintf(&b, "%s **%s** - %d mentions (%.1fx spike)\n", emoji, title, kw.Count, kw.SpikeFactor)
		} else {
			fmt.Fprintf(&b, "• **%s** - %d mentions\n", title, kw.Count)
		}
	}

	b.WriteString("\n*These topics are generating buzz in your sources*\n\n")
	return b.String()
}

// Counts converts a keyword slice back to a frequency map for storage.
func Counts(keywords []Keyword) map[string]int {
	counts := make(map[string]int, len(keywords))
	for _, kw := range keywords {
		counts[kw.Keyword] = kw.Count
	}
	return counts
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// relevance weights frequency by keyword length; longer keywords tend to be
// more specific.
func relevance(keyword string, count, totalItems int) float64 {
	if totalItems < 1 {
		totalItems = 1
	}
	frequencyScore := float64(count) / float64(totalItems)
	lengthBonus := float64(len(keyword)) / 10
	if lengthBonus > 1 {
		lengthBonus = 1
	}
	return (frequencyScore + lengthBonus) / 2
}
