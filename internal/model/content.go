package model

import "time"

// Source is a connected content source (twitter handle, youtube channel,
// newsletter RSS feed).
type Source struct {
	ID         string
	UserID     string
	SourceType string // twitter, youtube, newsletter
	Identifier string // handle, channel name, or RSS URL
	Active     bool
	AddedAt    time.Time
}

// ContentItem is one aggregated piece of content handed to the generator.
type ContentItem struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	SourceType string `json:"source_type,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// StyleProfile carries the user's writing-style training text.
type StyleProfile struct {
	TrainingText string
}

// Draft statuses as stored in the drafts table.
const (
	DraftStatusDraft  = "draft"
	DraftStatusSent   = "sent"
	DraftStatusFailed = "failed"
)

// Draft is a generated newsletter draft.
type Draft struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Title            string     `json:"title"`
	Content          string     `json:"content"` // markdown
	LLMProvider      string     `json:"llm_provider,omitempty"`
	GenerationTimeMS int        `json:"generation_time_ms"`
	Status           string     `json:"status"`
	RecipientCount   int        `json:"recipient_count"`
	CreatedAt        time.Time  `json:"created_at"`
	SentAt           *time.Time `json:"sent_at,omitempty"`
}
