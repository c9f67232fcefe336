package service

import (
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/user/ticklist/internal/dto"
	"github.com/user/ticklist/internal/models"
	"github.com/user/ticklist/internal/ordering"
	apperrors "github.com/user/ticklist/pkg/errors"
)

const defaultColor = "#007AFF"

type ChecklistService struct {
	checklistRepo ChecklistStore
	itemRepo      ItemStore
	archiveRepo   ArchiveStore
	orderingMgr   *ordering.Manager
	scheduler     ReminderScheduler
}

func NewChecklistService(
	checklistRepo ChecklistStore,
	itemRepo ItemStore,
	archiveRepo ArchiveStore,
	orderingMgr *ordering.Manager,
	scheduler ReminderScheduler,
) *ChecklistService {
	return &ChecklistService{
		checklistRepo: checklistRepo,
		itemRepo:      itemRepo,
		archiveRepo:   archiveRepo,
		orderingMgr:   orderingMgr,
		scheduler:     scheduler,
	}
}

func (s *ChecklistService) Create(req dto.CreateChecklistRequest) (*dto.ChecklistDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError("Checklist name must not be empty")
	}

	position, err := s.orderingMgr.NextChecklistPosition()
	if err != nil {
		return nil, err
	}

	checklist := &models.Checklist{
		Name:     name,
		Color:    defaultString(req.Color, defaultColor),
		Position: position,
	}

	if err := s.checklistRepo.Create(checklist); err != nil {
		return nil, apperrors.StorageError(err, "Failed to create checklist")
	}

	result := dto.ChecklistToDTO(checklist, 0, 0)
	return &result, nil
}

func (s *ChecklistService) GetByID(id uuid.UUID) (*dto.ChecklistDTO, error) {
	checklist, err := s.checklistRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrChecklistNotFound
	}

	result := s.toDTO(checklist)
	return &result, nil
}

func (s *ChecklistService) List() ([]dto.ChecklistDTO, error) {
	// A crash between the partial writes of a reorder can leave the global
	// sequence non-dense; heal it before presenting the list.
	if err := s.orderingMgr.CheckChecklists(); err != nil {
		if apperrors.GetAppError(err) != nil && apperrors.GetAppError(err).Code == apperrors.CodeOrderingInconsistency {
			if err := s.orderingMgr.RepairChecklists(); err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}

	checklists, err := s.checklistRepo.ListAll()
	if err != nil {
		return nil, apperrors.StorageError(err, "Failed to list checklists")
	}

	result := make([]dto.ChecklistDTO, len(checklists))
	for i := range checklists {
		result[i] = s.toDTO(&checklists[i])
	}
	return result, nil
}

func (s *ChecklistService) Update(id uuid.UUID, req dto.UpdateChecklistRequest) (*dto.ChecklistDTO, error) {
	checklist, err := s.checklistRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrChecklistNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ValidationError("Checklist name must not be empty")
		}
		checklist.Name = name
	}
	if req.Color != nil && *req.Color != "" {
		checklist.Color = *req.Color
	}

	if err := s.checklistRepo.Update(checklist); err != nil {
		return nil, apperrors.StorageError(err, "Failed to update checklist")
	}

	result := s.toDTO(checklist)
	return &result, nil
}

// Delete cascades: every active item's timers are cancelled, then the items,
// the archive records, and finally the checklist itself are removed. The
// remaining checklists are renumbered to keep the global sequence dense.
func (s *ChecklistService) Delete(id uuid.UUID) error {
	if _, err := s.checklistRepo.FindByID(id); err != nil {
		return apperrors.ErrChecklistNotFound
	}

	items, err := s.itemRepo.ListByChecklist(id)
	if err != nil {
		return apperrors.StorageError(err, "Failed to list checklist items")
	}
	for i := range items {
		s.scheduler.Cancel(items[i].ID)
	}

	if err := s.itemRepo.DeleteByChecklistID(id); err != nil {
		return apperrors.StorageError(err, "Failed to delete checklist items")
	}
	if err := s.archiveRepo.DeleteByChecklistID(id); err != nil {
		return apperrors.StorageError(err, "Failed to delete archived items")
	}
	if err := s.checklistRepo.Delete(id); err != nil {
		return apperrors.StorageError(err, "Failed to delete checklist")
	}

	return s.orderingMgr.RepairChecklists()
}

// Duplicate deep-copies the checklist and every active item under it.
// Archived items stay with the original.
func (s *ChecklistService) Duplicate(id uuid.UUID) (*dto.ChecklistDTO, error) {
	source, err := s.checklistRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrChecklistNotFound
	}

	position, err := s.orderingMgr.NextChecklistPosition()
	if err != nil {
		return nil, err
	}

	clone := &models.Checklist{
		ID:       uuid.New(),
		Name:     source.Name,
		Color:    source.Color,
		Position: position,
	}
	if err := s.checklistRepo.Create(clone); err != nil {
		return nil, apperrors.StorageError(err, "Failed to duplicate checklist")
	}

	items, err := s.itemRepo.ListByChecklist(id)
	if err != nil {
		return nil, apperrors.StorageError(err, "Failed to list checklist items")
	}
	for i := range items {
		itemClone := items[i].Clone()
		itemClone.ChecklistID = clone.ID
		itemClone.Position = i + 1
		if err := s.itemRepo.Create(itemClone); err != nil {
			return nil, apperrors.StorageError(err, "Failed to duplicate item")
		}
		if itemClone.DueDate != nil {
			s.scheduler.Schedule(itemClone)
		}
	}

	result := s.toDTO(clone)
	return &result, nil
}

// Reorder moves the checklist to a 1-based position in the global sequence.
func (s *ChecklistService) Reorder(id uuid.UUID, targetIndex int) ([]dto.ChecklistDTO, error) {
	if err := s.orderingMgr.MoveChecklist(id, targetIndex); err != nil {
		return nil, err
	}
	return s.List()
}

// toDTO decorates the checklist with its item and archive counts. A count
// that cannot be read renders as zero and the failure is logged; the read
// itself still succeeds.
func (s *ChecklistService) toDTO(checklist *models.Checklist) dto.ChecklistDTO {
	itemCount, err := s.itemRepo.CountByChecklist(checklist.ID)
	if err != nil {
		log.Printf("[ChecklistService] counting items of checklist %s: %v", checklist.ID, err)
	}
	archivedCount, err := s.archiveRepo.CountByChecklist(checklist.ID)
	if err != nil {
		log.Printf("[ChecklistService] counting archive of checklist %s: %v", checklist.ID, err)
	}
	return dto.ChecklistToDTO(checklist, itemCount, archivedCount)
}

func defaultString(ptr *string, defaultVal string) string {
	if ptr == nil || *ptr == "" {
		return defaultVal
	}
	return *ptr
}
