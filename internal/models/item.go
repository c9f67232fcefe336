package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RepeatKind string

const (
	RepeatNone   RepeatKind = "none"
	RepeatDaily  RepeatKind = "daily"
	RepeatWeekly RepeatKind = "weekly"
	RepeatCustom RepeatKind = "custom"
)

// RepeatRule defines whether completing an item spawns a successor and how
// far out its due date moves. IntervalDays is only meaningful for custom.
type RepeatRule struct {
	Kind         RepeatKind `json:"kind"`
	IntervalDays int        `json:"intervalDays,omitempty"`
}

// Value implements driver.Valuer for JSON column storage
func (r RepeatRule) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSON column storage
func (r *RepeatRule) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	}
	return errors.New("failed to unmarshal RepeatRule value")
}

// IsRepeating reports whether the rule produces a next occurrence at all.
func (r *RepeatRule) IsRepeating() bool {
	if r == nil {
		return false
	}
	switch r.Kind {
	case RepeatDaily, RepeatWeekly:
		return true
	case RepeatCustom:
		return r.IntervalDays > 0
	}
	return false
}

// Item is an active, schedulable unit of work. Completion moves the record
// into the archive collection; Completed is always false while the item is
// here and is carried only so serialized snapshots keep the full field set.
type Item struct {
	ID                      uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ChecklistID             uuid.UUID   `gorm:"type:uuid;not null;index" json:"checklistId"`
	Title                   string      `gorm:"size:500;not null" json:"title"`
	Notes                   string      `json:"notes"`
	DueDate                 *time.Time  `gorm:"index" json:"dueDate,omitempty"`
	Repeat                  *RepeatRule `gorm:"type:text" json:"repeatRule,omitempty"`
	ReminderRepeatCount     int         `gorm:"default:1" json:"reminderRepeatCount"`
	AutoDismissAfterMinutes *int        `json:"autoDismissAfterMinutes,omitempty"`
	Completed               bool        `gorm:"default:false" json:"completed"`
	Position                int         `gorm:"not null;index" json:"position"`
	CreatedAt               time.Time   `json:"createdAt"`
	UpdatedAt               time.Time   `json:"updatedAt"`

	// Relations
	Checklist *Checklist `gorm:"foreignKey:ChecklistID" json:"-"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.ReminderRepeatCount < 1 {
		i.ReminderRepeatCount = 1
	}
	return nil
}

// HasDueDate reports whether the item is schedulable at all.
func (i *Item) HasDueDate() bool {
	return i.DueDate != nil
}

// Archive snapshots the item into an immutable archive record.
func (i *Item) Archive(completedAt time.Time) *ArchivedItem {
	return &ArchivedItem{
		ID:                      i.ID,
		ChecklistID:             i.ChecklistID,
		Title:                   i.Title,
		Notes:                   i.Notes,
		DueDate:                 i.DueDate,
		Repeat:                  i.Repeat,
		ReminderRepeatCount:     i.ReminderRepeatCount,
		AutoDismissAfterMinutes: i.AutoDismissAfterMinutes,
		CreatedAt:               i.CreatedAt,
		CompletedAt:             completedAt,
	}
}

// Clone deep-copies the item under a fresh id with an unset position.
// Used by duplication and by recurrence regeneration.
func (i *Item) Clone() *Item {
	clone := &Item{
		ID:                  uuid.New(),
		ChecklistID:         i.ChecklistID,
		Title:               i.Title,
		Notes:               i.Notes,
		ReminderRepeatCount: i.ReminderRepeatCount,
		Completed:           false,
	}
	if i.DueDate != nil {
		due := *i.DueDate
		clone.DueDate = &due
	}
	if i.Repeat != nil {
		rule := *i.Repeat
		clone.Repeat = &rule
	}
	if i.AutoDismissAfterMinutes != nil {
		mins := *i.AutoDismissAfterMinutes
		clone.AutoDismissAfterMinutes = &mins
	}
	return clone
}
