package api

import "github.com/gin-gonic/gin"

// RegisterRoutes wires every endpoint onto the router
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	checklists := api.Group("/checklists")
	{
		checklists.GET("", h.ListChecklists)
		checklists.POST("", h.CreateChecklist)
		checklists.GET("/:id", h.GetChecklist)
		checklists.PUT("/:id", h.UpdateChecklist)
		checklists.DELETE("/:id", h.DeleteChecklist)
		checklists.POST("/:id/duplicate", h.DuplicateChecklist)
		checklists.POST("/:id/reorder", h.ReorderChecklist)
		checklists.GET("/:id/items", h.ListItems)
	}

	items := api.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
		items.POST("/:id/complete", h.CompleteItem)
		items.POST("/:id/duplicate", h.DuplicateItem)
		items.POST("/:id/move", h.MoveItem)
	}

	archive := api.Group("/archive")
	{
		archive.GET("", h.ListArchivedItems)
		archive.DELETE("/:id", h.PurgeArchivedItem)
	}

	syncGroup := api.Group("/sync")
	{
		syncGroup.POST("/save", h.SaveSnapshot)
		syncGroup.POST("/load", h.LoadSnapshot)
	}

	r.GET("/events", h.Events)
}
