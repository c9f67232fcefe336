package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/user/ticklist/internal/models"
)

// CreateItemRequest is the request body for creating an item
type CreateItemRequest struct {
	ChecklistID             uuid.UUID          `json:"checklistId" binding:"required"`
	Title                   string             `json:"title" binding:"required,max=500"`
	Notes                   string             `json:"notes"`
	DueDate                 *time.Time         `json:"dueDate,omitempty"`
	RepeatRule              *models.RepeatRule `json:"repeatRule,omitempty"`
	ReminderRepeatCount     *int               `json:"reminderRepeatCount,omitempty" binding:"omitempty,min=1"`
	AutoDismissAfterMinutes *int               `json:"autoDismissAfterMinutes,omitempty" binding:"omitempty,min=1"`
}

// UpdateItemRequest is the request body for editing an item. Nil pointers
// leave a field unchanged; the Clear flags reset a nullable field.
type UpdateItemRequest struct {
	ChecklistID             *uuid.UUID         `json:"checklistId,omitempty"`
	Title                   *string            `json:"title,omitempty" binding:"omitempty,max=500"`
	Notes                   *string            `json:"notes,omitempty"`
	DueDate                 *time.Time         `json:"dueDate,omitempty"`
	ClearDueDate            bool               `json:"clearDueDate,omitempty"`
	RepeatRule              *models.RepeatRule `json:"repeatRule,omitempty"`
	ClearRepeatRule         bool               `json:"clearRepeatRule,omitempty"`
	ReminderRepeatCount     *int               `json:"reminderRepeatCount,omitempty" binding:"omitempty,min=1"`
	AutoDismissAfterMinutes *int               `json:"autoDismissAfterMinutes,omitempty" binding:"omitempty,min=1"`
	ClearAutoDismiss        bool               `json:"clearAutoDismiss,omitempty"`
}

// MoveItemRequest moves an item to a 1-based position, optionally into
// another checklist
type MoveItemRequest struct {
	ChecklistID *uuid.UUID `json:"checklistId,omitempty"`
	TargetIndex int        `json:"targetIndex" binding:"required,min=1"`
}

// ItemDTO represents an active item in responses
type ItemDTO struct {
	ID                      uuid.UUID          `json:"id"`
	ChecklistID             uuid.UUID          `json:"checklistId"`
	Title                   string             `json:"title"`
	Notes                   string             `json:"notes"`
	DueDate                 *time.Time         `json:"dueDate,omitempty"`
	RepeatRule              *models.RepeatRule `json:"repeatRule,omitempty"`
	ReminderRepeatCount     int                `json:"reminderRepeatCount"`
	AutoDismissAfterMinutes *int               `json:"autoDismissAfterMinutes,omitempty"`
	Completed               bool               `json:"completed"`
	Position                int                `json:"position"`
	CreatedAt               time.Time          `json:"createdAt"`
	UpdatedAt               time.Time          `json:"updatedAt"`
}

// ArchivedItemDTO represents an archived item in responses
type ArchivedItemDTO struct {
	ID                  uuid.UUID          `json:"id"`
	ChecklistID         uuid.UUID          `json:"checklistId"`
	Title               string             `json:"title"`
	Notes               string             `json:"notes"`
	DueDate             *time.Time         `json:"dueDate,omitempty"`
	RepeatRule          *models.RepeatRule `json:"repeatRule,omitempty"`
	ReminderRepeatCount int                `json:"reminderRepeatCount"`
	CreatedAt           time.Time          `json:"createdAt"`
	CompletedAt         time.Time          `json:"completedAt"`
}

// ItemToDTO converts an Item model to ItemDTO
func ItemToDTO(i *models.Item) ItemDTO {
	return ItemDTO{
		ID:                      i.ID,
		ChecklistID:             i.ChecklistID,
		Title:                   i.Title,
		Notes:                   i.Notes,
		DueDate:                 i.DueDate,
		RepeatRule:              i.Repeat,
		ReminderRepeatCount:     i.ReminderRepeatCount,
		AutoDismissAfterMinutes: i.AutoDismissAfterMinutes,
		Completed:               i.Completed,
		Position:                i.Position,
		CreatedAt:               i.CreatedAt,
		UpdatedAt:               i.UpdatedAt,
	}
}

// ItemsToDTO converts a slice of Item models to DTOs
func ItemsToDTO(items []models.Item) []ItemDTO {
	dtos := make([]ItemDTO, len(items))
	for i := range items {
		dtos[i] = ItemToDTO(&items[i])
	}
	return dtos
}

// ArchivedItemToDTO converts an ArchivedItem model to ArchivedItemDTO
func ArchivedItemToDTO(a *models.ArchivedItem) ArchivedItemDTO {
	return ArchivedItemDTO{
		ID:                  a.ID,
		ChecklistID:         a.ChecklistID,
		Title:               a.Title,
		Notes:               a.Notes,
		DueDate:             a.DueDate,
		RepeatRule:          a.Repeat,
		ReminderRepeatCount: a.ReminderRepeatCount,
		CreatedAt:           a.CreatedAt,
		CompletedAt:         a.CompletedAt,
	}
}

// ArchivedItemsToDTO converts a slice of ArchivedItem models to DTOs
func ArchivedItemsToDTO(archived []models.ArchivedItem) []ArchivedItemDTO {
	dtos := make([]ArchivedItemDTO, len(archived))
	for i := range archived {
		dtos[i] = ArchivedItemToDTO(&archived[i])
	}
	return dtos
}
