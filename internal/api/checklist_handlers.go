package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/ticklist/internal/dto"
	apperrors "github.com/user/ticklist/pkg/errors"
)

// ListChecklists returns every checklist ordered by position
func (h *Handler) ListChecklists(c *gin.Context) {
	checklists, err := h.checklistService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checklists": checklists})
}

// GetChecklist returns a single checklist
func (h *Handler) GetChecklist(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	checklist, err := h.checklistService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, checklist)
}

// CreateChecklist creates a checklist appended to the end of the sequence
func (h *Handler) CreateChecklist(c *gin.Context) {
	var req dto.CreateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	checklist, err := h.checklistService.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("checklist.created", checklist)
	c.JSON(http.StatusCreated, checklist)
}

// UpdateChecklist renames or recolors a checklist
func (h *Handler) UpdateChecklist(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	checklist, err := h.checklistService.Update(id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("checklist.updated", checklist)
	c.JSON(http.StatusOK, checklist)
}

// DeleteChecklist removes a checklist together with its items and archive
func (h *Handler) DeleteChecklist(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.checklistService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("checklist.deleted", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DuplicateChecklist copies a checklist and its active items
func (h *Handler) DuplicateChecklist(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	checklist, err := h.checklistService.Duplicate(id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("checklist.created", checklist)
	c.JSON(http.StatusCreated, checklist)
}

// ReorderChecklist moves a checklist to a new position in the global sequence
// and returns the full re-enumerated collection
func (h *Handler) ReorderChecklist(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.ReorderChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	checklists, err := h.checklistService.Reorder(id, req.TargetIndex)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("checklist.reordered", gin.H{"id": id})
	c.JSON(http.StatusOK, gin.H{"checklists": checklists})
}
