package service

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/user/ticklist/internal/dto"
	"github.com/user/ticklist/internal/models"
	"github.com/user/ticklist/internal/ordering"
	syncclient "github.com/user/ticklist/internal/sync"
	apperrors "github.com/user/ticklist/pkg/errors"
)

// SyncService serializes the three collections to the optional remote
// endpoint and applies a downloaded snapshot back onto the local store.
type SyncService struct {
	checklistRepo ChecklistStore
	itemRepo      ItemStore
	archiveRepo   ArchiveStore
	orderingMgr   *ordering.Manager
	scheduler     ReminderScheduler
	client        *syncclient.Client
}

func NewSyncService(
	checklistRepo ChecklistStore,
	itemRepo ItemStore,
	archiveRepo ArchiveStore,
	orderingMgr *ordering.Manager,
	scheduler ReminderScheduler,
	client *syncclient.Client,
) *SyncService {
	return &SyncService{
		checklistRepo: checklistRepo,
		itemRepo:      itemRepo,
		archiveRepo:   archiveRepo,
		orderingMgr:   orderingMgr,
		scheduler:     scheduler,
		client:        client,
	}
}

// Snapshot serializes the three collections.
func (s *SyncService) Snapshot() (*models.Snapshot, error) {
	checklists, err := s.checklistRepo.ListAll()
	if err != nil {
		return nil, apperrors.StorageError(err, "Failed to read checklists")
	}
	items, err := s.itemRepo.ListAll()
	if err != nil {
		return nil, apperrors.StorageError(err, "Failed to read items")
	}
	archived, err := s.archiveRepo.ListAll()
	if err != nil {
		return nil, apperrors.StorageError(err, "Failed to read archive")
	}
	return &models.Snapshot{
		Checklists:    checklists,
		Items:         items,
		ArchivedItems: archived,
	}, nil
}

// Save uploads the current snapshot under the given identifier.
func (s *SyncService) Save(ctx context.Context, id string) (*dto.SyncSaveResponse, error) {
	if s.client == nil {
		return nil, apperrors.New(apperrors.CodeSyncUnavailable, "Sync endpoint not configured", http.StatusServiceUnavailable)
	}

	snapshot, err := s.Snapshot()
	if err != nil {
		return nil, err
	}

	result, err := s.client.Save(ctx, id, snapshot)
	if err != nil {
		return nil, err
	}

	savedAt := result.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	return &dto.SyncSaveResponse{Success: result.Success, SavedAt: savedAt}, nil
}

// Load downloads the snapshot stored under id and replaces the local
// collections with it. Every ordering scope is repaired afterwards and every
// item with a due date is rescheduled, so the loaded state behaves exactly
// like locally-created state.
func (s *SyncService) Load(ctx context.Context, id string) (*dto.SyncLoadResponse, error) {
	if s.client == nil {
		return nil, apperrors.New(apperrors.CodeSyncUnavailable, "Sync endpoint not configured", http.StatusServiceUnavailable)
	}

	result, err := s.client.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !result.Success || result.Payload == nil {
		return nil, apperrors.New(apperrors.CodeSyncUnavailable, "Sync endpoint returned no snapshot", http.StatusBadGateway)
	}

	if err := s.replaceCollections(result.Payload); err != nil {
		return nil, err
	}

	return &dto.SyncLoadResponse{
		Success:       true,
		Checklists:    len(result.Payload.Checklists),
		Items:         len(result.Payload.Items),
		ArchivedItems: len(result.Payload.ArchivedItems),
	}, nil
}

func (s *SyncService) replaceCollections(snapshot *models.Snapshot) error {
	// Cancel timers for everything being replaced before any record moves.
	existing, err := s.itemRepo.ListAll()
	if err != nil {
		return apperrors.StorageError(err, "Failed to read items")
	}
	for i := range existing {
		s.scheduler.Cancel(existing[i].ID)
	}

	checklists, err := s.checklistRepo.ListAll()
	if err != nil {
		return apperrors.StorageError(err, "Failed to read checklists")
	}
	for i := range checklists {
		id := checklists[i].ID
		if err := s.itemRepo.DeleteByChecklistID(id); err != nil {
			return apperrors.StorageError(err, "Failed to clear items")
		}
		if err := s.archiveRepo.DeleteByChecklistID(id); err != nil {
			return apperrors.StorageError(err, "Failed to clear archive")
		}
		if err := s.checklistRepo.Delete(id); err != nil {
			return apperrors.StorageError(err, "Failed to clear checklists")
		}
	}

	// Orphans (items whose checklist vanished in a past crash) go too.
	leftover, err := s.itemRepo.ListAll()
	if err != nil {
		return apperrors.StorageError(err, "Failed to read items")
	}
	for i := range leftover {
		if err := s.itemRepo.Delete(leftover[i].ID); err != nil {
			return apperrors.StorageError(err, "Failed to clear orphaned item")
		}
	}

	for i := range snapshot.Checklists {
		checklist := snapshot.Checklists[i]
		if err := s.checklistRepo.Create(&checklist); err != nil {
			return apperrors.StorageError(err, "Failed to import checklist")
		}
	}
	for i := range snapshot.Items {
		item := snapshot.Items[i]
		if err := s.itemRepo.Create(&item); err != nil {
			return apperrors.StorageError(err, "Failed to import item")
		}
	}
	for i := range snapshot.ArchivedItems {
		archived := snapshot.ArchivedItems[i]
		if err := s.archiveRepo.Create(&archived); err != nil {
			return apperrors.StorageError(err, "Failed to import archived item")
		}
	}

	if err := s.orderingMgr.RepairChecklists(); err != nil {
		return err
	}
	for i := range snapshot.Checklists {
		if err := s.orderingMgr.RepairItems(snapshot.Checklists[i].ID); err != nil {
			return err
		}
	}

	imported, err := s.itemRepo.ListAll()
	if err != nil {
		return apperrors.StorageError(err, "Failed to read imported items")
	}
	for i := range imported {
		if imported[i].DueDate != nil {
			s.scheduler.Schedule(&imported[i])
		}
	}

	log.Printf("[SyncService] applied snapshot: %d checklists, %d items, %d archived",
		len(snapshot.Checklists), len(snapshot.Items), len(snapshot.ArchivedItems))
	return nil
}
