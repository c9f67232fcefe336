package dto

import "time"

// SyncRequest names the remote snapshot a save or load operates on
type SyncRequest struct {
	ID string `json:"id" binding:"required"`
}

// SyncSaveResponse is the response for uploading a snapshot
type SyncSaveResponse struct {
	Success bool      `json:"success"`
	SavedAt time.Time `json:"savedAt"`
}

// SyncLoadResponse summarizes a snapshot applied to the local store
type SyncLoadResponse struct {
	Success       bool `json:"success"`
	Checklists    int  `json:"checklists"`
	Items         int  `json:"items"`
	ArchivedItems int  `json:"archivedItems"`
}
