package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createTeamTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		project_name TEXT NOT NULL,
		invite_code TEXT NOT NULL UNIQUE,
		created_by TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE team_members (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'member',
		last_seen DATETIME,
		joined_at DATETIME NOT NULL,
		UNIQUE(team_id, user_id)
	);`)
}

func createTaskTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		assigned_to TEXT,
		deadline DATETIME,
		created_by TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createNoteTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE notes (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_by TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE ai_summaries (
		id TEXT PRIMARY KEY,
		team_id TEXT NOT NULL,
		summary_text TEXT NOT NULL,
		action_items TEXT,
		created_by TEXT,
		created_at DATETIME
	);`)
}
