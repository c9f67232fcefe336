package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/user/ticklist/internal/dto"
	apperrors "github.com/user/ticklist/pkg/errors"
)

// ListItems returns the active items of one checklist ordered by position
func (h *Handler) ListItems(c *gin.Context) {
	checklistID, ok := parseID(c, "id")
	if !ok {
		return
	}

	items, err := h.itemService.ListByChecklist(checklistID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetItem returns a single active item
func (h *Handler) GetItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem creates an item appended to the end of its checklist
func (h *Handler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	item, err := h.itemService.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("item.created", item)
	c.JSON(http.StatusCreated, item)
}

// UpdateItem edits item fields; due date changes reprogram the reminder
func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	item, err := h.itemService.Update(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("item.updated", item)
	c.JSON(http.StatusOK, item)
}

// CompleteItem archives an item; a repeating item returns its successor.
// Completing an item that no longer exists succeeds with no successor.
func (h *Handler) CompleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	successor, err := h.itemService.Complete(id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("item.completed", gin.H{"id": id})
	if successor != nil {
		h.broadcast("item.created", successor)
		c.JSON(http.StatusOK, gin.H{"success": true, "successor": successor})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteItem removes an item without archiving it
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("item.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DuplicateItem copies an item within its checklist
func (h *Handler) DuplicateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.Duplicate(id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("item.created", item)
	c.JSON(http.StatusCreated, item)
}

// MoveItem repositions an item, optionally into another checklist, and
// returns the target checklist's re-enumerated items
func (h *Handler) MoveItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	items, err := h.itemService.Move(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("item.moved", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListArchivedItems returns completed history, newest first. An optional
// checklistId query narrows the scope.
func (h *Handler) ListArchivedItems(c *gin.Context) {
	var checklistID *uuid.UUID
	if raw := c.Query("checklistId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, apperrors.ValidationError("Invalid checklistId: must be a UUID"))
			return
		}
		checklistID = &id
	}

	archived, err := h.itemService.ListArchived(checklistID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"archivedItems": archived})
}

// PurgeArchivedItem removes one record from the archive
func (h *Handler) PurgeArchivedItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.PurgeArchived(id); err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("archive.purged", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"success": true})
}
