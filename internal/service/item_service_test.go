package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/user/ticklist/internal/dto"
	"github.com/user/ticklist/internal/models"
	"github.com/user/ticklist/internal/ordering"
	apperrors "github.com/user/ticklist/pkg/errors"
)

func TestItemCreate(t *testing.T) {
	t.Run("appends at the end of its checklist", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		a := f.mustCreateItem(t, c.ID, "milk")
		b := f.mustCreateItem(t, c.ID, "eggs")

		if a.Position != 1 || b.Position != 2 {
			t.Fatalf("expected positions 1 and 2, got %d and %d", a.Position, b.Position)
		}
	})

	t.Run("a due date arms a reminder", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		due := time.Now().Add(time.Hour)
		if _, err := f.item.Create(dto.CreateItemRequest{
			ChecklistID: c.ID,
			Title:       "milk",
			DueDate:     &due,
		}); err != nil {
			t.Fatalf("creating: %v", err)
		}
		if f.sched.scheduledCount() != 1 {
			t.Errorf("expected 1 scheduled reminder, got %d", f.sched.scheduledCount())
		}
	})

	t.Run("without a due date nothing is scheduled", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		f.mustCreateItem(t, c.ID, "milk")
		if f.sched.scheduledCount() != 0 {
			t.Errorf("scheduled a reminder without a due date")
		}
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		_, err := f.item.Create(dto.CreateItemRequest{ChecklistID: c.ID, Title: "  "})
		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeValidationError {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects an unknown checklist", func(t *testing.T) {
		f := newFixture()
		_, err := f.item.Create(dto.CreateItemRequest{ChecklistID: uuid.New(), Title: "milk"})
		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeChecklistNotFound {
			t.Fatalf("expected checklist not found, got %v", err)
		}
	})

	t.Run("rejects a non-positive custom interval", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		_, err := f.item.Create(dto.CreateItemRequest{
			ChecklistID: c.ID,
			Title:       "milk",
			RepeatRule:  &models.RepeatRule{Kind: models.RepeatCustom, IntervalDays: 0},
		})
		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeValidationError {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects a repeat count below one", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		zero := 0
		_, err := f.item.Create(dto.CreateItemRequest{
			ChecklistID:         c.ID,
			Title:               "milk",
			ReminderRepeatCount: &zero,
		})
		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeValidationError {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestItemUpdate(t *testing.T) {
	t.Run("a new due date reprograms the reminder", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		item := f.mustCreateItem(t, c.ID, "milk")

		due := time.Now().Add(2 * time.Hour)
		updated, err := f.item.Update(item.ID, dto.UpdateItemRequest{DueDate: &due})
		if err != nil {
			t.Fatalf("updating: %v", err)
		}
		if updated.DueDate == nil || !updated.DueDate.Equal(due) {
			t.Errorf("due date not applied: %v", updated.DueDate)
		}
		if f.sched.scheduledCount() != 1 {
			t.Errorf("expected the reminder to be scheduled, got %d", f.sched.scheduledCount())
		}
	})

	t.Run("clearing the due date cancels the reminder", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		due := time.Now().Add(time.Hour)
		item, err := f.item.Create(dto.CreateItemRequest{ChecklistID: c.ID, Title: "milk", DueDate: &due})
		if err != nil {
			t.Fatalf("creating: %v", err)
		}

		updated, err := f.item.Update(item.ID, dto.UpdateItemRequest{ClearDueDate: true})
		if err != nil {
			t.Fatalf("updating: %v", err)
		}
		if updated.DueDate != nil {
			t.Errorf("due date not cleared: %v", updated.DueDate)
		}
		if f.sched.cancelledCount() == 0 {
			t.Error("expected the reminder to be cancelled")
		}
	})

	t.Run("changing the checklist appends to the target", func(t *testing.T) {
		f := newFixture()
		source := f.mustCreateChecklist(t, "Groceries")
		target := f.mustCreateChecklist(t, "Chores")
		f.mustCreateItem(t, target.ID, "laundry")
		moved := f.mustCreateItem(t, source.ID, "milk")
		f.mustCreateItem(t, source.ID, "eggs")

		updated, err := f.item.Update(moved.ID, dto.UpdateItemRequest{ChecklistID: &target.ID})
		if err != nil {
			t.Fatalf("updating: %v", err)
		}
		if updated.ChecklistID != target.ID {
			t.Fatalf("item not reparented: %v", updated.ChecklistID)
		}
		if updated.Position != 2 {
			t.Errorf("expected appended position 2, got %d", updated.Position)
		}

		sourceItems, err := f.item.ListByChecklist(source.ID)
		if err != nil {
			t.Fatalf("listing source: %v", err)
		}
		if len(sourceItems) != 1 || sourceItems[0].Position != 1 {
			t.Errorf("source sequence not closed: %+v", sourceItems)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture()
		title := "x"
		_, err := f.item.Update(uuid.New(), dto.UpdateItemRequest{Title: &title})
		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeItemNotFound {
			t.Fatalf("expected item not found, got %v", err)
		}
	})
}

func TestItemComplete(t *testing.T) {
	t.Run("archives and closes the position gap", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		f.mustCreateItem(t, c.ID, "milk")
		done := f.mustCreateItem(t, c.ID, "eggs")
		f.mustCreateItem(t, c.ID, "bread")

		successor, err := f.item.Complete(done.ID)
		if err != nil {
			t.Fatalf("completing: %v", err)
		}
		if successor != nil {
			t.Fatalf("non-repeating item spawned a successor: %+v", successor)
		}

		if _, err := f.item.GetByID(done.ID); err == nil {
			t.Fatal("completed item still active")
		}
		archived, err := f.item.ListArchived(&c.ID)
		if err != nil {
			t.Fatalf("listing archive: %v", err)
		}
		if len(archived) != 1 || archived[0].ID != done.ID {
			t.Fatalf("expected the completed item in the archive, got %+v", archived)
		}
		if archived[0].CompletedAt.IsZero() {
			t.Error("archive record has no completion time")
		}

		remaining, err := f.item.ListByChecklist(c.ID)
		if err != nil {
			t.Fatalf("listing: %v", err)
		}
		for i, it := range remaining {
			if it.Position != i+1 {
				t.Fatalf("sequence not dense after completion: %+v", remaining)
			}
		}
	})

	t.Run("daily item spawns a successor one day out", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Routines")
		due := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
		item, err := f.item.Create(dto.CreateItemRequest{
			ChecklistID: c.ID,
			Title:       "Water the plants",
			DueDate:     &due,
			RepeatRule:  &models.RepeatRule{Kind: models.RepeatDaily},
		})
		if err != nil {
			t.Fatalf("creating: %v", err)
		}

		successor, err := f.item.Complete(item.ID)
		if err != nil {
			t.Fatalf("completing: %v", err)
		}
		if successor == nil {
			t.Fatal("expected a successor")
		}
		if successor.ID == item.ID {
			t.Fatal("successor shares the completed item's id")
		}
		wantDue := due.AddDate(0, 0, 1)
		if successor.DueDate == nil || !successor.DueDate.Equal(wantDue) {
			t.Errorf("expected due %v, got %v", wantDue, successor.DueDate)
		}
		if successor.RepeatRule == nil || successor.RepeatRule.Kind != models.RepeatDaily {
			t.Error("successor lost its repeat rule")
		}
		if successor.Position != 1 {
			t.Errorf("expected the successor appended at position 1, got %d", successor.Position)
		}

		// Original is archived, successor is armed.
		archived, _ := f.item.ListArchived(&c.ID)
		if len(archived) != 1 {
			t.Fatalf("expected 1 archive record, got %d", len(archived))
		}
		found := false
		f.sched.mu.Lock()
		for _, id := range f.sched.scheduled {
			if id == successor.ID {
				found = true
			}
		}
		f.sched.mu.Unlock()
		if !found {
			t.Error("successor reminder was not scheduled")
		}
	})

	t.Run("repeating item without a due date spawns nothing", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Routines")
		item, err := f.item.Create(dto.CreateItemRequest{
			ChecklistID: c.ID,
			Title:       "stretch",
			RepeatRule:  &models.RepeatRule{Kind: models.RepeatWeekly},
		})
		if err != nil {
			t.Fatalf("creating: %v", err)
		}

		successor, err := f.item.Complete(item.ID)
		if err != nil {
			t.Fatalf("completing: %v", err)
		}
		if successor != nil {
			t.Fatalf("expected no successor, got %+v", successor)
		}
	})

	t.Run("completing a missing item is a no-op", func(t *testing.T) {
		f := newFixture()
		successor, err := f.item.Complete(uuid.New())
		if err != nil {
			t.Fatalf("expected idempotent completion, got %v", err)
		}
		if successor != nil {
			t.Fatalf("expected no successor, got %+v", successor)
		}
	})

	t.Run("a storage failure surfaces instead of passing for idempotence", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		item := f.mustCreateItem(t, c.ID, "milk")

		failing := &failingItemStore{memItemStore: f.items, findErr: errors.New("database is locked")}
		svc := NewItemService(f.checklists, failing, f.archive, ordering.NewManager(f.checklists, f.items), f.sched)

		_, err := svc.Complete(item.ID)
		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeStorageUnavailable {
			t.Fatalf("expected storage unavailable, got %v", err)
		}

		// Nothing was archived and the item stays active.
		if _, err := f.item.GetByID(item.ID); err != nil {
			t.Errorf("item vanished despite the failed load: %v", err)
		}
		archived, _ := f.item.ListArchived(&c.ID)
		if len(archived) != 0 {
			t.Errorf("item archived despite the failed load: %+v", archived)
		}
	})

	t.Run("cancels the reminder before archiving", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		due := time.Now().Add(time.Hour)
		item, err := f.item.Create(dto.CreateItemRequest{ChecklistID: c.ID, Title: "milk", DueDate: &due})
		if err != nil {
			t.Fatalf("creating: %v", err)
		}

		if _, err := f.item.Complete(item.ID); err != nil {
			t.Fatalf("completing: %v", err)
		}
		if f.sched.cancelledCount() != 1 {
			t.Errorf("expected 1 cancel, got %d", f.sched.cancelledCount())
		}
	})
}

func TestItemDelete(t *testing.T) {
	f := newFixture()
	c := f.mustCreateChecklist(t, "Groceries")
	f.mustCreateItem(t, c.ID, "milk")
	doomed := f.mustCreateItem(t, c.ID, "eggs")
	f.mustCreateItem(t, c.ID, "bread")

	if err := f.item.Delete(doomed.ID); err != nil {
		t.Fatalf("deleting: %v", err)
	}

	if f.sched.cancelledCount() != 1 {
		t.Errorf("expected the reminder cancelled, got %d cancels", f.sched.cancelledCount())
	}
	// Deletion skips the archive.
	archived, _ := f.item.ListArchived(&c.ID)
	if len(archived) != 0 {
		t.Errorf("deleted item landed in the archive: %+v", archived)
	}
	remaining, err := f.item.ListByChecklist(c.ID)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 items, got %d", len(remaining))
	}
	for i, it := range remaining {
		if it.Position != i+1 {
			t.Fatalf("sequence not dense after delete: %+v", remaining)
		}
	}
}

func TestItemDuplicate(t *testing.T) {
	f := newFixture()
	c := f.mustCreateChecklist(t, "Groceries")
	due := time.Now().Add(time.Hour)
	minutes := 15
	source, err := f.item.Create(dto.CreateItemRequest{
		ChecklistID:             c.ID,
		Title:                   "milk",
		Notes:                   "2 liters",
		DueDate:                 &due,
		AutoDismissAfterMinutes: &minutes,
	})
	if err != nil {
		t.Fatalf("creating: %v", err)
	}

	clone, err := f.item.Duplicate(source.ID)
	if err != nil {
		t.Fatalf("duplicating: %v", err)
	}

	if clone.ID == source.ID {
		t.Fatal("clone shares the source id")
	}
	if clone.Title != source.Title || clone.Notes != source.Notes {
		t.Errorf("clone fields differ: %+v", clone)
	}
	if clone.Position != 2 {
		t.Errorf("expected the clone appended at position 2, got %d", clone.Position)
	}
	if f.sched.scheduledCount() != 2 {
		t.Errorf("expected the clone's reminder armed, got %d schedules", f.sched.scheduledCount())
	}
}

func TestItemMove(t *testing.T) {
	t.Run("within a checklist", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		a := f.mustCreateItem(t, c.ID, "milk")
		b := f.mustCreateItem(t, c.ID, "eggs")
		f.mustCreateItem(t, c.ID, "bread")

		result, err := f.item.Move(b.ID, dto.MoveItemRequest{TargetIndex: 1})
		if err != nil {
			t.Fatalf("moving: %v", err)
		}
		if result[0].ID != b.ID || result[1].ID != a.ID {
			t.Fatalf("unexpected order: %+v", result)
		}
		for i, it := range result {
			if it.Position != i+1 {
				t.Fatalf("sequence not dense: %+v", result)
			}
		}
	})

	t.Run("across checklists", func(t *testing.T) {
		f := newFixture()
		source := f.mustCreateChecklist(t, "Groceries")
		target := f.mustCreateChecklist(t, "Chores")
		moved := f.mustCreateItem(t, source.ID, "milk")
		f.mustCreateItem(t, target.ID, "laundry")

		result, err := f.item.Move(moved.ID, dto.MoveItemRequest{ChecklistID: &target.ID, TargetIndex: 1})
		if err != nil {
			t.Fatalf("moving: %v", err)
		}
		if len(result) != 2 || result[0].ID != moved.ID {
			t.Fatalf("unexpected target sequence: %+v", result)
		}

		sourceItems, err := f.item.ListByChecklist(source.ID)
		if err != nil {
			t.Fatalf("listing source: %v", err)
		}
		if len(sourceItems) != 0 {
			t.Fatalf("item left behind in the source: %+v", sourceItems)
		}
	})

	t.Run("unknown target checklist", func(t *testing.T) {
		f := newFixture()
		c := f.mustCreateChecklist(t, "Groceries")
		item := f.mustCreateItem(t, c.ID, "milk")
		bogus := uuid.New()

		_, err := f.item.Move(item.ID, dto.MoveItemRequest{ChecklistID: &bogus, TargetIndex: 1})
		appErr := apperrors.GetAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeChecklistNotFound {
			t.Fatalf("expected checklist not found, got %v", err)
		}
	})
}

func TestPurgeArchived(t *testing.T) {
	f := newFixture()
	c := f.mustCreateChecklist(t, "Groceries")
	done := f.mustCreateItem(t, c.ID, "milk")
	if _, err := f.item.Complete(done.ID); err != nil {
		t.Fatalf("completing: %v", err)
	}

	if err := f.item.PurgeArchived(done.ID); err != nil {
		t.Fatalf("purging: %v", err)
	}
	archived, _ := f.item.ListArchived(&c.ID)
	if len(archived) != 0 {
		t.Fatalf("archive record survived the purge: %+v", archived)
	}

	err := f.item.PurgeArchived(done.ID)
	appErr := apperrors.GetAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found on second purge, got %v", err)
	}
}

func TestRearmAll(t *testing.T) {
	f := newFixture()
	c := f.mustCreateChecklist(t, "Groceries")
	due := time.Now().Add(time.Hour)
	if _, err := f.item.Create(dto.CreateItemRequest{ChecklistID: c.ID, Title: "milk", DueDate: &due}); err != nil {
		t.Fatalf("creating: %v", err)
	}
	f.mustCreateItem(t, c.ID, "eggs")

	before := f.sched.scheduledCount()
	if err := f.item.RearmAll(); err != nil {
		t.Fatalf("re-arming: %v", err)
	}
	if f.sched.scheduledCount() != before+1 {
		t.Errorf("expected one re-armed reminder, got %d", f.sched.scheduledCount()-before)
	}
}
