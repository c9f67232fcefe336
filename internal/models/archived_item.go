package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchivedItem is the immutable record of a completed item. It keeps the
// item's id and the due date it held at completion time. Archived records are
// never mutated and never return to the active collection; they are removed
// only by explicit purge or by the owning checklist's cascade delete.
type ArchivedItem struct {
	ID                      uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ChecklistID             uuid.UUID   `gorm:"type:uuid;not null;index" json:"checklistId"`
	Title                   string      `gorm:"size:500;not null" json:"title"`
	Notes                   string      `json:"notes"`
	DueDate                 *time.Time  `json:"dueDate,omitempty"`
	Repeat                  *RepeatRule `gorm:"type:text" json:"repeatRule,omitempty"`
	ReminderRepeatCount     int         `gorm:"default:1" json:"reminderRepeatCount"`
	AutoDismissAfterMinutes *int        `json:"autoDismissAfterMinutes,omitempty"`
	CreatedAt               time.Time   `json:"createdAt"`
	CompletedAt             time.Time   `gorm:"not null;index" json:"completedAt"`
}

func (a *ArchivedItem) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
