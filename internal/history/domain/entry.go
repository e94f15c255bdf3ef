package domain

import (
	"context"
	"time"
)

// Entry is one line of the activity history
type Entry struct {
	ID         string    `json:"id" gorm:"primaryKey;size:64"`
	EventType  string    `json:"eventType" gorm:"size:64;index"`
	Action     string    `json:"action" gorm:"not null"`
	OccurredAt time.Time `json:"occurredAt" gorm:"not null;index"`
}

// TableName specifies the table name
func (Entry) TableName() string {
	return "activity_entries"
}

// EntryRepository defines the contract for history storage. Add ignores an
// entry whose ID is already stored so redelivered events count once.
type EntryRepository interface {
	Add(ctx context.Context, entry *Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}
