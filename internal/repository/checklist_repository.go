package repository

import (
	"github.com/google/uuid"
	"github.com/user/ticklist/internal/models"
	"gorm.io/gorm"
)

type ChecklistRepository struct {
	db *gorm.DB
}

func NewChecklistRepository(db *gorm.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

func (r *ChecklistRepository) Create(checklist *models.Checklist) error {
	return r.db.Create(checklist).Error
}

func (r *ChecklistRepository) FindByID(id uuid.UUID) (*models.Checklist, error) {
	var checklist models.Checklist
	err := r.db.Where("id = ?", id).First(&checklist).Error
	if err != nil {
		return nil, err
	}
	return &checklist, nil
}

// ListAll returns every checklist in sequence order, ties broken by creation
// time so a repair pass sees a deterministic ordering.
func (r *ChecklistRepository) ListAll() ([]models.Checklist, error) {
	var checklists []models.Checklist
	err := r.db.
		Order("position ASC, created_at ASC").
		Find(&checklists).Error
	return checklists, err
}

func (r *ChecklistRepository) Update(checklist *models.Checklist) error {
	return r.db.Save(checklist).Error
}

func (r *ChecklistRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Checklist{}, "id = ?", id).Error
}

func (r *ChecklistRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Checklist{}).Count(&count).Error
	return count, err
}

// MaxPosition returns the highest position in the global sequence, 0 if empty.
func (r *ChecklistRepository) MaxPosition() (int, error) {
	var max *int
	err := r.db.Model(&models.Checklist{}).
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

func (r *ChecklistRepository) UpdatePosition(id uuid.UUID, position int) error {
	return r.db.Model(&models.Checklist{}).
		Where("id = ?", id).
		Update("position", position).Error
}
