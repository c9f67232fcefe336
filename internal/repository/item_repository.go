package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/user/ticklist/internal/models"
	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(item *models.Item) error {
	return r.db.Create(item).Error
}

func (r *ItemRepository) FindByID(id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.db.Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindActive is FindByID with not-found flattened to (nil, nil). The
// scheduler uses it to re-validate an item at timer fire time, where a
// missing record is expected rather than exceptional.
func (r *ItemRepository) FindActive(id uuid.UUID) (*models.Item, error) {
	item, err := r.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ItemRepository) ListAll() ([]models.Item, error) {
	var items []models.Item
	err := r.db.
		Order("checklist_id ASC, position ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

// ListByChecklist returns a checklist's items in sequence order, ties broken
// by creation time so a repair pass sees a deterministic ordering.
func (r *ItemRepository) ListByChecklist(checklistID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	err := r.db.
		Where("checklist_id = ?", checklistID).
		Order("position ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

// ListDueBefore returns active items whose due date has passed. The scheduler
// sweep uses it to re-arm reminders lost across a restart.
func (r *ItemRepository) ListDueBefore(t time.Time) ([]models.Item, error) {
	var items []models.Item
	err := r.db.
		Where("due_date IS NOT NULL AND due_date <= ?", t).
		Order("due_date ASC").
		Find(&items).Error
	return items, err
}

func (r *ItemRepository) Update(item *models.Item) error {
	return r.db.Save(item).Error
}

func (r *ItemRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Item{}, "id = ?", id).Error
}

func (r *ItemRepository) DeleteByChecklistID(checklistID uuid.UUID) error {
	return r.db.Where("checklist_id = ?", checklistID).Delete(&models.Item{}).Error
}

func (r *ItemRepository) CountByChecklist(checklistID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Item{}).
		Where("checklist_id = ?", checklistID).
		Count(&count).Error
	return count, err
}

// MaxPosition returns the highest position within a checklist, 0 if empty.
func (r *ItemRepository) MaxPosition(checklistID uuid.UUID) (int, error) {
	var max *int
	err := r.db.Model(&models.Item{}).
		Where("checklist_id = ?", checklistID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *ItemRepository) UpdatePosition(id uuid.UUID, position int) error {
	return r.db.Model(&models.Item{}).
		Where("id = ?", id).
		Update("position", position).Error
}

// UpdateChecklistAndPosition reparents an item as part of a cross-checklist
// move. Both fields change in one record write.
func (r *ItemRepository) UpdateChecklistAndPosition(id, checklistID uuid.UUID, position int) error {
	return r.db.Model(&models.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"checklist_id": checklistID,
			"position":     position,
		}).Error
}
