package models

// Snapshot is the serialized form of the three collections. It is the payload
// exchanged with the optional remote sync endpoint and is also what the
// migrate tool reads when importing an older database.
type Snapshot struct {
	Checklists    []Checklist    `json:"checklists"`
	Items         []Item         `json:"items"`
	ArchivedItems []ArchivedItem `json:"archivedItems"`
}
