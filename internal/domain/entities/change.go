package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ChangeType is the kind of row change carried by the realtime feed
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// Tables observable through the realtime feed
const (
	TableTeams       = "teams"
	TableTeamMembers = "team_members"
	TableTasks       = "tasks"
	TableNotes       = "notes"
	TableAISummaries = "ai_summaries"
)

// Change is a row-level change notification scoped to a team
type Change struct {
	Table    string     `json:"table"`
	Type     ChangeType `json:"type"`
	TeamID   uuid.UUID  `json:"teamId"`
	RecordID uuid.UUID  `json:"recordId"`
	At       time.Time  `json:"at"`
}

// ObservableTables lists the tables a client may watch
var ObservableTables = []string{TableTeams, TableTeamMembers, TableTasks, TableNotes, TableAISummaries}

// IsObservableTable reports whether table can be watched through the feed
func IsObservableTable(table string) bool {
	return lo.Contains(ObservableTables, table)
}

// NewChange builds a change stamped with the current UTC time
func NewChange(table string, typ ChangeType, teamID, recordID uuid.UUID) Change {
	return Change{Table: table, Type: typ, TeamID: teamID, RecordID: recordID, At: time.Now().UTC()}
}
