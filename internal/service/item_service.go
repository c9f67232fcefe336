package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/user/ticklist/internal/dto"
	"github.com/user/ticklist/internal/models"
	"github.com/user/ticklist/internal/ordering"
	"github.com/user/ticklist/internal/recurrence"
	apperrors "github.com/user/ticklist/pkg/errors"
)

type ItemService struct {
	checklistRepo ChecklistStore
	itemRepo      ItemStore
	archiveRepo   ArchiveStore
	orderingMgr   *ordering.Manager
	scheduler     ReminderScheduler
}

func NewItemService(
	checklistRepo ChecklistStore,
	itemRepo ItemStore,
	archiveRepo ArchiveStore,
	orderingMgr *ordering.Manager,
	scheduler ReminderScheduler,
) *ItemService {
	return &ItemService{
		checklistRepo: checklistRepo,
		itemRepo:      itemRepo,
		archiveRepo:   archiveRepo,
		orderingMgr:   orderingMgr,
		scheduler:     scheduler,
	}
}

func (s *ItemService) Create(req dto.CreateItemRequest) (*dto.ItemDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.ValidationError("Item title must not be empty")
	}
	if err := validateRepeatRule(req.RepeatRule); err != nil {
		return nil, err
	}

	if _, err := s.checklistRepo.FindByID(req.ChecklistID); err != nil {
		return nil, apperrors.ErrChecklistNotFound
	}

	position, err := s.orderingMgr.NextItemPosition(req.ChecklistID)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		ChecklistID:             req.ChecklistID,
		Title:                   title,
		Notes:                   req.Notes,
		DueDate:                 req.DueDate,
		Repeat:                  req.RepeatRule,
		ReminderRepeatCount:     1,
		AutoDismissAfterMinutes: req.AutoDismissAfterMinutes,
		Position:                position,
	}
	if req.ReminderRepeatCount != nil {
		if *req.ReminderRepeatCount < 1 {
			return nil, apperrors.ValidationError("Reminder repeat count must be at least 1")
		}
		item.ReminderRepeatCount = *req.ReminderRepeatCount
	}

	if err := s.itemRepo.Create(item); err != nil {
		return nil, apperrors.StorageError(err, "Failed to create item")
	}

	if item.DueDate != nil {
		s.scheduler.Schedule(item)
	}

	result := dto.ItemToDTO(item)
	return &result, nil
}

func (s *ItemService) GetByID(id uuid.UUID) (*dto.ItemDTO, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrItemNotFound
	}
	result := dto.ItemToDTO(item)
	return &result, nil
}

func (s *ItemService) ListByChecklist(checklistID uuid.UUID) ([]dto.ItemDTO, error) {
	if _, err := s.checklistRepo.FindByID(checklistID); err != nil {
		return nil, apperrors.ErrChecklistNotFound
	}

	// Heal a non-dense sequence (crash between partial writes) on read.
	if err := s.orderingMgr.CheckItems(checklistID); err != nil {
		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeOrderingInconsistency {
			return nil, err
		}
		if err := s.orderingMgr.RepairItems(checklistID); err != nil {
			return nil, err
		}
	}

	items, err := s.itemRepo.ListByChecklist(checklistID)
	if err != nil {
		return nil, apperrors.StorageError(err, "Failed to list items")
	}
	return dto.ItemsToDTO(items), nil
}

// Update edits an item in place. A changed checklist is a cross-checklist
// move appended to the target sequence; position is preserved otherwise.
// The scheduler is reprogrammed whenever a due date is present and cancelled
// when it is cleared.
func (s *ItemService) Update(id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemDTO, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrItemNotFound
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.ValidationError("Item title must not be empty")
		}
		item.Title = title
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.ClearDueDate {
		item.DueDate = nil
	} else if req.DueDate != nil {
		item.DueDate = req.DueDate
	}
	if req.ClearRepeatRule {
		item.Repeat = nil
	} else if req.RepeatRule != nil {
		if err := validateRepeatRule(req.RepeatRule); err != nil {
			return nil, err
		}
		item.Repeat = req.RepeatRule
	}
	if req.ReminderRepeatCount != nil {
		if *req.ReminderRepeatCount < 1 {
			return nil, apperrors.ValidationError("Reminder repeat count must be at least 1")
		}
		item.ReminderRepeatCount = *req.ReminderRepeatCount
	}
	if req.ClearAutoDismiss {
		item.AutoDismissAfterMinutes = nil
	} else if req.AutoDismissAfterMinutes != nil {
		if *req.AutoDismissAfterMinutes < 1 {
			return nil, apperrors.ValidationError("Auto-dismiss delay must be at least 1 minute")
		}
		item.AutoDismissAfterMinutes = req.AutoDismissAfterMinutes
	}

	moveTarget := item.ChecklistID
	if req.ChecklistID != nil && *req.ChecklistID != item.ChecklistID {
		if _, err := s.checklistRepo.FindByID(*req.ChecklistID); err != nil {
			return nil, apperrors.ErrChecklistNotFound
		}
		moveTarget = *req.ChecklistID
	}

	if err := s.itemRepo.Update(item); err != nil {
		return nil, apperrors.StorageError(err, "Failed to update item")
	}

	if moveTarget != item.ChecklistID {
		appendIndex, err := s.orderingMgr.NextItemPosition(moveTarget)
		if err != nil {
			return nil, err
		}
		if err := s.orderingMgr.MoveItem(item, moveTarget, appendIndex); err != nil {
			return nil, err
		}
		item, err = s.itemRepo.FindByID(id)
		if err != nil {
			return nil, apperrors.StorageError(err, "Failed to reload item")
		}
	}

	if item.DueDate != nil {
		s.scheduler.Schedule(item)
	} else {
		s.scheduler.Cancel(item.ID)
	}

	result := dto.ItemToDTO(item)
	return &result, nil
}

// Complete archives the item. Idempotent: completing an item that is already
// archived (or gone) is a no-op. When the item repeats, the successor is
// created with the next due date and an appended position, and its reminder
// is armed. The returned DTO is the successor, if one was spawned.
func (s *ItemService) Complete(id uuid.UUID) (*dto.ItemDTO, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already archived or deleted since the caller decided to complete.
			return nil, nil
		}
		return nil, apperrors.StorageError(err, "Failed to load item")
	}

	s.scheduler.Cancel(id)

	archived := item.Archive(time.Now())
	if err := s.archiveRepo.Create(archived); err != nil {
		return nil, apperrors.StorageError(err, "Failed to archive item")
	}
	if err := s.itemRepo.Delete(id); err != nil {
		return nil, apperrors.StorageError(err, "Failed to remove completed item")
	}
	if err := s.orderingMgr.RepairItems(item.ChecklistID); err != nil {
		return nil, err
	}

	if !item.Repeat.IsRepeating() || item.DueDate == nil {
		return nil, nil
	}
	next := recurrence.NextDue(*item.DueDate, item.Repeat)
	if next == nil {
		return nil, nil
	}

	position, err := s.orderingMgr.NextItemPosition(item.ChecklistID)
	if err != nil {
		return nil, err
	}

	successor := item.Clone()
	successor.DueDate = next
	successor.Position = position
	if err := s.itemRepo.Create(successor); err != nil {
		return nil, apperrors.StorageError(err, "Failed to create recurring successor")
	}
	s.scheduler.Schedule(successor)

	result := dto.ItemToDTO(successor)
	return &result, nil
}

// Delete removes an active item. The archive is not affected.
func (s *ItemService) Delete(id uuid.UUID) error {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return apperrors.ErrItemNotFound
	}

	s.scheduler.Cancel(id)

	if err := s.itemRepo.Delete(id); err != nil {
		return apperrors.StorageError(err, "Failed to delete item")
	}
	return s.orderingMgr.RepairItems(item.ChecklistID)
}

// Duplicate deep-copies the item at the end of its checklist.
func (s *ItemService) Duplicate(id uuid.UUID) (*dto.ItemDTO, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrItemNotFound
	}

	position, err := s.orderingMgr.NextItemPosition(item.ChecklistID)
	if err != nil {
		return nil, err
	}

	clone := item.Clone()
	clone.Position = position
	if err := s.itemRepo.Create(clone); err != nil {
		return nil, apperrors.StorageError(err, "Failed to duplicate item")
	}
	if clone.DueDate != nil {
		s.scheduler.Schedule(clone)
	}

	result := dto.ItemToDTO(clone)
	return &result, nil
}

// Move places the item at a 1-based position, optionally in another
// checklist.
func (s *ItemService) Move(id uuid.UUID, req dto.MoveItemRequest) ([]dto.ItemDTO, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrItemNotFound
	}

	target := item.ChecklistID
	if req.ChecklistID != nil && *req.ChecklistID != item.ChecklistID {
		if _, err := s.checklistRepo.FindByID(*req.ChecklistID); err != nil {
			return nil, apperrors.ErrChecklistNotFound
		}
		target = *req.ChecklistID
	}

	if err := s.orderingMgr.MoveItem(item, target, req.TargetIndex); err != nil {
		return nil, err
	}
	return s.ListByChecklist(target)
}

// ListArchived returns the immutable history, newest first.
func (s *ItemService) ListArchived(checklistID *uuid.UUID) ([]dto.ArchivedItemDTO, error) {
	var (
		archived []models.ArchivedItem
		err      error
	)
	if checklistID != nil {
		archived, err = s.archiveRepo.ListByChecklist(*checklistID)
	} else {
		archived, err = s.archiveRepo.ListAll()
	}
	if err != nil {
		return nil, apperrors.StorageError(err, "Failed to list archive")
	}
	return dto.ArchivedItemsToDTO(archived), nil
}

// PurgeArchived explicitly removes one archive record.
func (s *ItemService) PurgeArchived(id uuid.UUID) error {
	if _, err := s.archiveRepo.FindByID(id); err != nil {
		return apperrors.ErrNotFound
	}
	if err := s.archiveRepo.Delete(id); err != nil {
		return apperrors.StorageError(err, "Failed to purge archived item")
	}
	return nil
}

// RearmAll re-programs the scheduler for every active item with a due date.
// Called once at startup so future reminders survive a restart; past-due
// items are picked up by the scheduler sweep as well.
func (s *ItemService) RearmAll() error {
	items, err := s.itemRepo.ListAll()
	if err != nil {
		return apperrors.StorageError(err, "Failed to list items")
	}
	for i := range items {
		if items[i].DueDate != nil {
			s.scheduler.Schedule(&items[i])
		}
	}
	return nil
}

// validateRepeatRule rejects malformed rules before any mutation.
func validateRepeatRule(rule *models.RepeatRule) error {
	if rule == nil {
		return nil
	}
	switch rule.Kind {
	case models.RepeatNone, models.RepeatDaily, models.RepeatWeekly:
		return nil
	case models.RepeatCustom:
		if rule.IntervalDays < 1 {
			return apperrors.ValidationError("Custom repeat interval must be a positive number of days")
		}
		return nil
	}
	return apperrors.ValidationError("Unknown repeat rule")
}
