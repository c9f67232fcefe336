package ordering

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/user/ticklist/internal/models"
	apperrors "github.com/user/ticklist/pkg/errors"
)

// ChecklistSequence is the slice of the checklist store the manager needs to
// maintain the single global position sequence.
type ChecklistSequence interface {
	ListAll() ([]models.Checklist, error)
	MaxPosition() (int, error)
	UpdatePosition(id uuid.UUID, position int) error
}

// ItemSequence is the slice of the item store the manager needs to maintain
// one dense position sequence per checklist.
type ItemSequence interface {
	ListByChecklist(checklistID uuid.UUID) ([]models.Item, error)
	MaxPosition(checklistID uuid.UUID) (int, error)
	UpdatePosition(id uuid.UUID, position int) error
	UpdateChecklistAndPosition(id, checklistID uuid.UUID, position int) error
}

// Manager assigns and repairs integer positions so every scope stays a dense
// 1..N sequence after any committed operation. Multi-record rewrites are a
// sequence of single-record writes; a crash mid-sequence is healed by the
// idempotent repair pass.
type Manager struct {
	checklists ChecklistSequence
	items      ItemSequence
}

func NewManager(checklists ChecklistSequence, items ItemSequence) *Manager {
	return &Manager{
		checklists: checklists,
		items:      items,
	}
}

// NextChecklistPosition returns the append position for a new checklist.
func (m *Manager) NextChecklistPosition() (int, error) {
	max, err := m.checklists.MaxPosition()
	if err != nil {
		return 0, apperrors.StorageError(err, "Failed to read checklist sequence")
	}
	return max + 1, nil
}

// NextItemPosition returns the append position for a new item in a checklist.
func (m *Manager) NextItemPosition(checklistID uuid.UUID) (int, error) {
	max, err := m.items.MaxPosition(checklistID)
	if err != nil {
		return 0, apperrors.StorageError(err, "Failed to read item sequence")
	}
	return max + 1, nil
}

// MoveChecklist places the checklist at targetIndex (1-based) in the global
// sequence, shifting neighbours to keep the sequence dense.
func (m *Manager) MoveChecklist(id uuid.UUID, targetIndex int) error {
	seq, err := m.checklists.ListAll()
	if err != nil {
		return apperrors.StorageError(err, "Failed to read checklist sequence")
	}

	ids := make([]uuid.UUID, len(seq))
	positions := make(map[uuid.UUID]int, len(seq))
	for i, c := range seq {
		ids[i] = c.ID
		positions[c.ID] = c.Position
	}

	reordered, ok := moveWithin(ids, id, targetIndex)
	if !ok {
		return apperrors.ErrChecklistNotFound
	}

	for i, cid := range reordered {
		want := i + 1
		if positions[cid] == want {
			continue
		}
		if err := m.checklists.UpdatePosition(cid, want); err != nil {
			return apperrors.StorageError(err, "Failed to write checklist position")
		}
	}
	return nil
}

// MoveItem places the item at targetIndex (1-based) within targetChecklistID.
// A target checklist different from the item's current one is a cross-scope
// move: the source sequence closes its gap and the target sequence opens one,
// as two independent dense-sequence rewrites.
func (m *Manager) MoveItem(item *models.Item, targetChecklistID uuid.UUID, targetIndex int) error {
	if item.ChecklistID == targetChecklistID {
		return m.moveItemWithin(item, targetIndex)
	}
	return m.moveItemAcross(item, targetChecklistID, targetIndex)
}

func (m *Manager) moveItemWithin(item *models.Item, targetIndex int) error {
	seq, err := m.items.ListByChecklist(item.ChecklistID)
	if err != nil {
		return apperrors.StorageError(err, "Failed to read item sequence")
	}

	ids := make([]uuid.UUID, len(seq))
	positions := make(map[uuid.UUID]int, len(seq))
	for i, it := range seq {
		ids[i] = it.ID
		positions[it.ID] = it.Position
	}

	reordered, ok := moveWithin(ids, item.ID, targetIndex)
	if !ok {
		return apperrors.ErrItemNotFound
	}

	for i, iid := range reordered {
		want := i + 1
		if positions[iid] == want {
			continue
		}
		if err := m.items.UpdatePosition(iid, want); err != nil {
			return apperrors.StorageError(err, "Failed to write item position")
		}
	}
	return nil
}

func (m *Manager) moveItemAcross(item *models.Item, targetChecklistID uuid.UUID, targetIndex int) error {
	target, err := m.items.ListByChecklist(targetChecklistID)
	if err != nil {
		return apperrors.StorageError(err, "Failed to read item sequence")
	}

	if targetIndex < 1 {
		targetIndex = 1
	}
	if targetIndex > len(target)+1 {
		targetIndex = len(target) + 1
	}

	// Reparent the moved record first so a crash leaves it in exactly one
	// scope; both sequences are then renumbered around it.
	if err := m.items.UpdateChecklistAndPosition(item.ID, targetChecklistID, targetIndex); err != nil {
		return apperrors.StorageError(err, "Failed to reparent item")
	}

	// Open the gap in the target: records at or after targetIndex shift up.
	for i := len(target) - 1; i >= 0; i-- {
		it := target[i]
		want := i + 1
		if want >= targetIndex {
			want++
		}
		if it.Position == want {
			continue
		}
		if err := m.items.UpdatePosition(it.ID, want); err != nil {
			return apperrors.StorageError(err, "Failed to write item position")
		}
	}

	// Close the gap in the source.
	return m.RepairItems(item.ChecklistID)
}

// RepairChecklists re-enumerates the global checklist sequence to 1..N in
// current position order, ties broken by creation time. Idempotent and safe
// to invoke at any time.
func (m *Manager) RepairChecklists() error {
	seq, err := m.checklists.ListAll()
	if err != nil {
		return apperrors.StorageError(err, "Failed to read checklist sequence")
	}
	for i, c := range seq {
		want := i + 1
		if c.Position == want {
			continue
		}
		if err := m.checklists.UpdatePosition(c.ID, want); err != nil {
			return apperrors.StorageError(err, "Failed to write checklist position")
		}
	}
	return nil
}

// RepairItems re-enumerates a checklist's item sequence to 1..N. Also used to
// close the gap after a delete, completion, or cross-checklist move.
func (m *Manager) RepairItems(checklistID uuid.UUID) error {
	seq, err := m.items.ListByChecklist(checklistID)
	if err != nil {
		return apperrors.StorageError(err, "Failed to read item sequence")
	}
	for i, it := range seq {
		want := i + 1
		if it.Position == want {
			continue
		}
		if err := m.items.UpdatePosition(it.ID, want); err != nil {
			return apperrors.StorageError(err, "Failed to write item position")
		}
	}
	return nil
}

// CheckChecklists reports an OrderingInconsistency error when the global
// sequence is not exactly {1..N}. Callers resolve it with RepairChecklists.
func (m *Manager) CheckChecklists() error {
	seq, err := m.checklists.ListAll()
	if err != nil {
		return apperrors.StorageError(err, "Failed to read checklist sequence")
	}
	positions := make([]int, len(seq))
	for i, c := range seq {
		positions[i] = c.Position
	}
	if !dense(positions) {
		return apperrors.OrderingInconsistencyError("checklist sequence has duplicate or missing positions")
	}
	return nil
}

// CheckItems is the per-checklist counterpart of CheckChecklists.
func (m *Manager) CheckItems(checklistID uuid.UUID) error {
	seq, err := m.items.ListByChecklist(checklistID)
	if err != nil {
		return apperrors.StorageError(err, "Failed to read item sequence")
	}
	positions := make([]int, len(seq))
	for i, it := range seq {
		positions[i] = it.Position
	}
	if !dense(positions) {
		return apperrors.OrderingInconsistencyError(
			fmt.Sprintf("item sequence for checklist %s has duplicate or missing positions", checklistID))
	}
	return nil
}

// moveWithin removes id from the sequence and reinserts it so that it lands
// at targetIndex (1-based, clamped). Returns false when id is not present.
func moveWithin(ids []uuid.UUID, id uuid.UUID, targetIndex int) ([]uuid.UUID, bool) {
	source := -1
	for i, candidate := range ids {
		if candidate == id {
			source = i
			break
		}
	}
	if source == -1 {
		return nil, false
	}

	without := make([]uuid.UUID, 0, len(ids)-1)
	without = append(without, ids[:source]...)
	without = append(without, ids[source+1:]...)

	if targetIndex < 1 {
		targetIndex = 1
	}
	if targetIndex > len(without)+1 {
		targetIndex = len(without) + 1
	}

	reordered := make([]uuid.UUID, 0, len(ids))
	reordered = append(reordered, without[:targetIndex-1]...)
	reordered = append(reordered, id)
	reordered = append(reordered, without[targetIndex-1:]...)
	return reordered, true
}

// dense reports whether positions form exactly {1..N}. The input arrives in
// ascending position order, so a linear scan suffices.
func dense(positions []int) bool {
	for i, p := range positions {
		if p != i+1 {
			return false
		}
	}
	return true
}
