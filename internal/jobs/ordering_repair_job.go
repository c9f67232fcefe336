package jobs

import (
	"context"
	"log"

	"github.com/user/ticklist/internal/ordering"
	"github.com/user/ticklist/internal/repository"
)

// OrderingRepairJob re-enumerates every position scope. Repair is idempotent,
// so running it on healthy sequences is a no-op; it exists to heal sequences
// left non-dense by a crash between partial writes.
type OrderingRepairJob struct {
	checklistRepo *repository.ChecklistRepository
	orderingMgr   *ordering.Manager
}

// NewOrderingRepairJob creates a new ordering repair job handler
func NewOrderingRepairJob(checklistRepo *repository.ChecklistRepository, orderingMgr *ordering.Manager) *OrderingRepairJob {
	return &OrderingRepairJob{
		checklistRepo: checklistRepo,
		orderingMgr:   orderingMgr,
	}
}

// RepairAll repairs the global checklist sequence and every checklist's item
// sequence. Returns how many scopes were visited.
func (j *OrderingRepairJob) RepairAll(ctx context.Context) (int, error) {
	if err := j.orderingMgr.RepairChecklists(); err != nil {
		log.Printf("[OrderingRepairJob] Error repairing checklist sequence: %v", err)
		return 0, err
	}

	checklists, err := j.checklistRepo.ListAll()
	if err != nil {
		log.Printf("[OrderingRepairJob] Error listing checklists: %v", err)
		return 1, err
	}

	repaired := 1
	for i := range checklists {
		select {
		case <-ctx.Done():
			log.Printf("[OrderingRepairJob] Context cancelled, repaired %d scopes so far", repaired)
			return repaired, ctx.Err()
		default:
		}
		if err := j.orderingMgr.RepairItems(checklists[i].ID); err != nil {
			log.Printf("[OrderingRepairJob] Error repairing items of checklist %s: %v", checklists[i].ID, err)
			return repaired, err
		}
		repaired++
	}

	log.Printf("[OrderingRepairJob] Repaired %d ordering scopes", repaired)
	return repaired, nil
}
