package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(120);not null"`
	ProjectName string    `gorm:"type:varchar(120);not null"`
	InviteCode  string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

type TeamMember struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TeamID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user;index"`
	Role     string     `gorm:"type:varchar(20);not null;default:'member'"`
	LastSeen *time.Time `gorm:"index"`
	JoinedAt time.Time  `gorm:"not null"`
}

// TeamMemberWithUser is the scan target for member listings joined with users
type TeamMemberWithUser struct {
	TeamMember
	UserName  string
	UserEmail string
}

// MyTeamRow is the scan target for a user's team listing
type MyTeamRow struct {
	Team
	Role     string
	JoinedAt time.Time
}
