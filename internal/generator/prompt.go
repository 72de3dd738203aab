package generator

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert newsletter curator and writer. Create engaging, informative newsletters that readers love."

const styleSampleLimit = 500

// buildPrompt assembles the newsletter-generation prompt from the request.
func buildPrompt(req Request) string {
	numArticles := req.NumArticles
	if numArticles <= 0 {
		numArticles = 5
	}

	var summary []string
	for i, item := range req.ContentItems {
		if i >= numArticles {
			break
		}
		title := item.Title
		if title == "" {
			title = "Content from " + item.Identifier
		}
		summary = append(summary, "- "+title)
	}

	stylePrompt := ""
	if req.StyleProfile != nil && req.StyleProfile.TrainingText != "" {
		sample := req.StyleProfile.TrainingText
		if len(sample) > styleSampleLimit {
			sample = sample[:styleSampleLimit]
		}
		stylePrompt = fmt.Sprintf("\n\nWrite in a style similar to this sample:\n%s...", sample)
	}

	trendsLine := ""
	if req.IncludeTrends {
		trendsLine = "Include a trending topics section"
	}

	return fmt.Sprintf(`Create an engaging newsletter with the title %q.

Available content sources:
%s

Requirements:
1. Write an engaging introduction (2-3 sentences)
2. Include %d curated stories with:
   - Catchy headline
   - Brief summary (2-3 sentences)
   - "Why it matters" insight
3. %s
4. Add quick takes or additional insights
5. Close with a friendly sign-off
%s

Make it informative, engaging, and ready to send. Format in Markdown.`,
		req.Title,
		strings.Join(summary, "\n"),
		numArticles,
		trendsLine,
		stylePrompt,
	)
}
