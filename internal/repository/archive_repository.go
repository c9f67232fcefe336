package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/user/ticklist/internal/models"
	"gorm.io/gorm"
)

type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) Create(archived *models.ArchivedItem) error {
	return r.db.Create(archived).Error
}

func (r *ArchiveRepository) FindByID(id uuid.UUID) (*models.ArchivedItem, error) {
	var archived models.ArchivedItem
	err := r.db.Where("id = ?", id).First(&archived).Error
	if err != nil {
		return nil, err
	}
	return &archived, nil
}

func (r *ArchiveRepository) ListAll() ([]models.ArchivedItem, error) {
	var archived []models.ArchivedItem
	err := r.db.
		Order("completed_at DESC").
		Find(&archived).Error
	return archived, err
}

func (r *ArchiveRepository) ListByChecklist(checklistID uuid.UUID) ([]models.ArchivedItem, error) {
	var archived []models.ArchivedItem
	err := r.db.
		Where("checklist_id = ?", checklistID).
		Order("completed_at DESC").
		Find(&archived).Error
	return archived, err
}

func (r *ArchiveRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.ArchivedItem{}, "id = ?", id).Error
}

func (r *ArchiveRepository) DeleteByChecklistID(checklistID uuid.UUID) error {
	return r.db.Where("checklist_id = ?", checklistID).Delete(&models.ArchivedItem{}).Error
}

func (r *ArchiveRepository) CountByChecklist(checklistID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.ArchivedItem{}).
		Where("checklist_id = ?", checklistID).
		Count(&count).Error
	return count, err
}

// DeleteCompletedBefore purges archive records completed before the
// threshold and returns how many were removed.
func (r *ArchiveRepository) DeleteCompletedBefore(before time.Time) (int64, error) {
	result := r.db.Where("completed_at < ?", before).Delete(&models.ArchivedItem{})
	return result.RowsAffected, result.Error
}
