package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/ticklist/internal/dto"
	apperrors "github.com/user/ticklist/pkg/errors"
)

const syncTimeout = 45 * time.Second

// SaveSnapshot uploads the full local state under a caller-chosen id
func (h *Handler) SaveSnapshot(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), syncTimeout)
	defer cancel()

	resp, err := h.syncService.Save(ctx, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LoadSnapshot replaces the full local state with a remote snapshot
func (h *Handler) LoadSnapshot(c *gin.Context) {
	var req dto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.ValidationError(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), syncTimeout)
	defer cancel()

	resp, err := h.syncService.Load(ctx, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.broadcast("sync.loaded", resp)
	c.JSON(http.StatusOK, resp)
}
