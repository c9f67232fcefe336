package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/user/ticklist/internal/models"
)

// CreateChecklistRequest is the request body for creating a checklist
type CreateChecklistRequest struct {
	Name  string  `json:"name" binding:"required,max=100"`
	Color *string `json:"color,omitempty"`
}

// UpdateChecklistRequest is the request body for renaming or recoloring
type UpdateChecklistRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Color *string `json:"color,omitempty"`
}

// ReorderChecklistRequest moves a checklist to a 1-based position in the
// global sequence
type ReorderChecklistRequest struct {
	TargetIndex int `json:"targetIndex" binding:"required,min=1"`
}

// ChecklistDTO represents a checklist in responses
type ChecklistDTO struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Color         string     `json:"color"`
	Position      int        `json:"position"`
	ItemCount     int64      `json:"itemCount"`
	ArchivedCount int64      `json:"archivedCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// ChecklistToDTO converts a Checklist model to ChecklistDTO
func ChecklistToDTO(c *models.Checklist, itemCount, archivedCount int64) ChecklistDTO {
	return ChecklistDTO{
		ID:            c.ID,
		Name:          c.Name,
		Color:         c.Color,
		Position:      c.Position,
		ItemCount:     itemCount,
		ArchivedCount: archivedCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
