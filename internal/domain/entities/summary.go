package entities

import (
	"time"

	"github.com/google/uuid"
)

// NoteSeparator joins note bodies before they are summarized
const NoteSeparator = "\n\n---\n\n"

// AISummary is an immutable generated summary of a team's notes
type AISummary struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"teamId"`
	SummaryText string    `json:"summaryText"`
	ActionItems []string  `json:"actionItems"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SummaryResult reports the generated summary and whether the AI path was taken.
// Success is false when the canned fallback text was used.
type SummaryResult struct {
	Summary *AISummary `json:"summary"`
	Success bool       `json:"success"`
}

// ConvertActionItemInput promotes an action item to a task
type ConvertActionItemInput struct {
	ActionItem string `json:"actionItem" binding:"required"`
}
