package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/user/ticklist/internal/pubsub"
	"github.com/user/ticklist/internal/service"
	apperrors "github.com/user/ticklist/pkg/errors"
)

// Handler carries the services the HTTP surface dispatches into.
type Handler struct {
	checklistService *service.ChecklistService
	itemService      *service.ItemService
	syncService      *service.SyncService
	hub              *pubsub.Hub
}

// NewHandler creates a new API handler
func NewHandler(
	checklistService *service.ChecklistService,
	itemService *service.ItemService,
	syncService *service.SyncService,
	hub *pubsub.Hub,
) *Handler {
	return &Handler{
		checklistService: checklistService,
		itemService:      itemService,
		syncService:      syncService,
		hub:              hub,
	}
}

// respondError maps service errors onto the wire format. Unknown errors are
// logged and returned as opaque 500s.
func respondError(c *gin.Context, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	log.Printf("Unhandled error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    apperrors.CodeInternalError,
			"message": "An internal error occurred",
		},
	})
}

// parseID reads a UUID path parameter; a malformed value aborts the request
// with a validation error.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		respondError(c, apperrors.ValidationError("Invalid id: must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
