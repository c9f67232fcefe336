package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/user/ticklist/internal/models"
)

// Store interfaces consumed by the services. The repository package provides
// the SQLite-backed implementations; tests substitute in-memory fakes.

type ChecklistStore interface {
	Create(checklist *models.Checklist) error
	FindByID(id uuid.UUID) (*models.Checklist, error)
	ListAll() ([]models.Checklist, error)
	Update(checklist *models.Checklist) error
	Delete(id uuid.UUID) error
	MaxPosition() (int, error)
	UpdatePosition(id uuid.UUID, position int) error
}

type ItemStore interface {
	Create(item *models.Item) error
	FindByID(id uuid.UUID) (*models.Item, error)
	ListAll() ([]models.Item, error)
	ListByChecklist(checklistID uuid.UUID) ([]models.Item, error)
	ListDueBefore(t time.Time) ([]models.Item, error)
	Update(item *models.Item) error
	Delete(id uuid.UUID) error
	DeleteByChecklistID(checklistID uuid.UUID) error
	CountByChecklist(checklistID uuid.UUID) (int64, error)
	MaxPosition(checklistID uuid.UUID) (int, error)
	UpdatePosition(id uuid.UUID, position int) error
	UpdateChecklistAndPosition(id, checklistID uuid.UUID, position int) error
}

type ArchiveStore interface {
	Create(archived *models.ArchivedItem) error
	FindByID(id uuid.UUID) (*models.ArchivedItem, error)
	ListAll() ([]models.ArchivedItem, error)
	ListByChecklist(checklistID uuid.UUID) ([]models.ArchivedItem, error)
	Delete(id uuid.UUID) error
	DeleteByChecklistID(checklistID uuid.UUID) error
	CountByChecklist(checklistID uuid.UUID) (int64, error)
	DeleteCompletedBefore(before time.Time) (int64, error)
}

// ReminderScheduler is the slice of the scheduler the lifecycle layer drives.
// Cancel must happen before the record is removed or a replacement timer is
// armed; the scheduler enforces that internally.
type ReminderScheduler interface {
	Schedule(item *models.Item)
	Cancel(id uuid.UUID)
}
