package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StringList is a text[] column on postgres. Other dialects store the
// array literal ("{a,b}") in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *StringList) Scan(src interface{}) error {
	return (*pq.StringArray)(l).Scan(src)
}

func (StringList) GormDataType() string {
	return "text"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

type AISummary struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TeamID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SummaryText string    `gorm:"type:text;not null"`
	ActionItems StringList
	CreatedBy   uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

func (AISummary) TableName() string {
	return "ai_summaries"
}
