package service

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/user/ticklist/internal/models"
)

// The real stores surface gorm's sentinel for a missing record; the fakes do
// the same so the services' errors.Is checks behave identically under test.
var errRecordNotFound = gorm.ErrRecordNotFound

// memChecklistStore is an in-memory ChecklistStore.
type memChecklistStore struct {
	mu         sync.Mutex
	checklists map[uuid.UUID]*models.Checklist
}

func newMemChecklistStore() *memChecklistStore {
	return &memChecklistStore{checklists: make(map[uuid.UUID]*models.Checklist)}
}

func (m *memChecklistStore) Create(checklist *models.Checklist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if checklist.ID == uuid.Nil {
		checklist.ID = uuid.New()
	}
	if checklist.CreatedAt.IsZero() {
		checklist.CreatedAt = time.Now()
	}
	copied := *checklist
	m.checklists[checklist.ID] = &copied
	return nil
}

func (m *memChecklistStore) FindByID(id uuid.UUID) (*models.Checklist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.checklists[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, errRecordNotFound
}

func (m *memChecklistStore) ListAll() ([]models.Checklist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Checklist, 0, len(m.checklists))
	for _, c := range m.checklists {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memChecklistStore) Update(checklist *models.Checklist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.checklists[checklist.ID]; !ok {
		return errRecordNotFound
	}
	copied := *checklist
	m.checklists[checklist.ID] = &copied
	return nil
}

func (m *memChecklistStore) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.checklists, id)
	return nil
}

func (m *memChecklistStore) MaxPosition() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	max := 0
	for _, c := range m.checklists {
		if c.Position > max {
			max = c.Position
		}
	}
	return max, nil
}

func (m *memChecklistStore) UpdatePosition(id uuid.UUID, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.checklists[id]
	if !ok {
		return errRecordNotFound
	}
	c.Position = position
	return nil
}

// memItemStore is an in-memory ItemStore.
type memItemStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.Item
}

func newMemItemStore() *memItemStore {
	return &memItemStore{items: make(map[uuid.UUID]*models.Item)}
}

func (m *memItemStore) Create(item *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.ReminderRepeatCount < 1 {
		item.ReminderRepeatCount = 1
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *memItemStore) FindByID(id uuid.UUID) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.items[id]; ok {
		copied := *it
		return &copied, nil
	}
	return nil, errRecordNotFound
}

func (m *memItemStore) ListAll() ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, *it)
	}
	return out, nil
}

func (m *memItemStore) ListByChecklist(checklistID uuid.UUID) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Item, 0)
	for _, it := range m.items {
		if it.ChecklistID == checklistID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memItemStore) ListDueBefore(t time.Time) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Item, 0)
	for _, it := range m.items {
		if it.DueDate != nil && !it.DueDate.After(t) {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memItemStore) Update(item *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return errRecordNotFound
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *memItemStore) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func (m *memItemStore) DeleteByChecklistID(checklistID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, it := range m.items {
		if it.ChecklistID == checklistID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *memItemStore) CountByChecklist(checklistID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range m.items {
		if it.ChecklistID == checklistID {
			n++
		}
	}
	return n, nil
}

func (m *memItemStore) MaxPosition(checklistID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	max := 0
	for _, it := range m.items {
		if it.ChecklistID == checklistID && it.Position > max {
			max = it.Position
		}
	}
	return max, nil
}

func (m *memItemStore) UpdatePosition(id uuid.UUID, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return errRecordNotFound
	}
	it.Position = position
	return nil
}

func (m *memItemStore) UpdateChecklistAndPosition(id, checklistID uuid.UUID, position int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return errRecordNotFound
	}
	it.ChecklistID = checklistID
	it.Position = position
	return nil
}

// memArchiveStore is an in-memory ArchiveStore.
type memArchiveStore struct {
	mu       sync.Mutex
	archived map[uuid.UUID]*models.ArchivedItem
}

func newMemArchiveStore() *memArchiveStore {
	return &memArchiveStore{archived: make(map[uuid.UUID]*models.ArchivedItem)}
}

func (m *memArchiveStore) Create(archived *models.ArchivedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *archived
	m.archived[archived.ID] = &copied
	return nil
}

func (m *memArchiveStore) FindByID(id uuid.UUID) (*models.ArchivedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.archived[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, errRecordNotFound
}

func (m *memArchiveStore) ListAll() ([]models.ArchivedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ArchivedItem, 0, len(m.archived))
	for _, a := range m.archived {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

func (m *memArchiveStore) ListByChecklist(checklistID uuid.UUID) ([]models.ArchivedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ArchivedItem, 0)
	for _, a := range m.archived {
		if a.ChecklistID == checklistID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

func (m *memArchiveStore) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.archived, id)
	return nil
}

func (m *memArchiveStore) DeleteByChecklistID(checklistID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, a := range m.archived {
		if a.ChecklistID == checklistID {
			delete(m.archived, id)
		}
	}
	return nil
}

func (m *memArchiveStore) CountByChecklist(checklistID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.archived {
		if a.ChecklistID == checklistID {
			n++
		}
	}
	return n, nil
}

func (m *memArchiveStore) DeleteCompletedBefore(before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, a := range m.archived {
		if a.CompletedAt.Before(before) {
			delete(m.archived, id)
			n++
		}
	}
	return n, nil
}

// failingItemStore wraps memItemStore and fails selected operations, for
// exercising storage-failure paths.
type failingItemStore struct {
	*memItemStore
	findErr  error
	countErr error
}

func (f *failingItemStore) FindByID(id uuid.UUID) (*models.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.memItemStore.FindByID(id)
}

func (f *failingItemStore) CountByChecklist(checklistID uuid.UUID) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.memItemStore.CountByChecklist(checklistID)
}

// recordingScheduler records Schedule and Cancel calls.
type recordingScheduler struct {
	mu        sync.Mutex
	scheduled []uuid.UUID
	cancelled []uuid.UUID
}

func (r *recordingScheduler) Schedule(item *models.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, item.ID)
}

func (r *recordingScheduler) Cancel(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = append(r.cancelled, id)
}

func (r *recordingScheduler) scheduledCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scheduled)
}

func (r *recordingScheduler) cancelledCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancelled)
}
