package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Checklist is a named, ordered collection of items and their history.
// Position is unique within the single global checklist sequence.
type Checklist struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Color     string     `gorm:"size:7;default:'#007AFF'" json:"color"`
	Position  int        `gorm:"not null;index" json:"position"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// Relations
	Items []Item `gorm:"foreignKey:ChecklistID" json:"items,omitempty"`
}

func (c *Checklist) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
