package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/ticklist/internal/models"
	apperrors "github.com/user/ticklist/pkg/errors"
)

// State of one item's reminder machine.
type State int

const (
	Unscheduled State = iota
	Pending
	Fired
	Settled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fired:
		return "fired"
	case Settled:
		return "settled"
	}
	return "unscheduled"
}

const (
	// DefaultRepeatInterval is the fixed period between repeat notifications.
	DefaultRepeatInterval = 5 * time.Minute
	// DefaultSweepInterval is how often the sweep rescans for missed reminders.
	DefaultSweepInterval = time.Minute
)

// ItemSource is read access to the active collection. FindActive returns
// (nil, nil) when the item no longer exists; a timer firing for a removed
// item is a benign no-op, not a failure.
type ItemSource interface {
	FindActive(id uuid.UUID) (*models.Item, error)
	ListDueBefore(t time.Time) ([]models.Item, error)
}

// Notifier emits a reminder notification. The tag equals the item id so a
// later notification for the same item supersedes rather than stacks.
// Emission failures never affect scheduling.
type Notifier interface {
	Notify(title, body, tag string, requireInteraction bool)
}

// Scheduler owns every live timer, keyed by item id. All transitions go
// through one mutex, so cancelling an item's timers happens-before any
// replacement timer is armed for the same id.
type Scheduler struct {
	mu             sync.Mutex
	clock          Clock
	items          ItemSource
	notifier       Notifier
	repeatInterval time.Duration
	sweepInterval  time.Duration
	entries        map[uuid.UUID]*entry
	sweepTimer     Timer
	stopped        bool

	// autoDismiss completes an item whose reminders settled unattended.
	// Wired after construction; the lifecycle layer depends on the
	// scheduler, so this direction is a callback.
	autoDismiss func(id uuid.UUID) error
}

type entry struct {
	state            State
	repeatsRemaining int
	timer            Timer
}

func New(clock Clock, items ItemSource, notifier Notifier) *Scheduler {
	return &Scheduler{
		clock:          clock,
		items:          items,
		notifier:       notifier,
		repeatInterval: DefaultRepeatInterval,
		sweepInterval:  DefaultSweepInterval,
		entries:        make(map[uuid.UUID]*entry),
	}
}

// SetAutoDismiss wires the completion callback. Call once during startup,
// before any timers are armed.
func (s *Scheduler) SetAutoDismiss(fn func(id uuid.UUID) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoDismiss = fn
}

// Schedule cancels any prior timers for the item and, when it carries a due
// date, arms the due timer. An already-past due date enters the fired path
// straight away.
func (s *Scheduler) Schedule(item *models.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(item.ID)
	if s.stopped || item.DueDate == nil {
		return
	}

	id := item.ID
	e := &entry{state: Pending}
	s.entries[id] = e

	delay := item.DueDate.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}
	e.timer = s.clock.AfterFunc(delay, func() { s.fireDue(id) })
}

// Cancel stops and forgets every timer associated with the item id.
func (s *Scheduler) Cancel(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(id)
}

// StateOf returns the item's current reminder state.
func (s *Scheduler) StateOf(id uuid.UUID) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return e.state
	}
	return Unscheduled
}

// Start arms the periodic sweep.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sweepTimer != nil || s.stopped {
		return
	}
	s.armSweepLocked()
}

// Stop cancels the sweep and every live timer. The scheduler accepts no new
// work afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.sweepTimer != nil {
		s.sweepTimer.Stop()
		s.sweepTimer = nil
	}
	for id := range s.entries {
		s.cancelLocked(id)
	}
}

// Sweep rescans active items whose due date has passed but which the
// scheduler is not tracking (typically after a restart) and re-enters them at
// the due point. Idempotent: any tracked item, settled ones included, is left
// alone.
func (s *Scheduler) Sweep() {
	now := s.clock.Now()
	due, err := s.items.ListDueBefore(now)
	if err != nil {
		log.Printf("[Scheduler] sweep: listing due items: %v", err)
		return
	}

	for i := range due {
		item := due[i]
		s.mu.Lock()
		_, live := s.entries[item.ID]
		s.mu.Unlock()
		if live {
			continue
		}
		log.Printf("[Scheduler] sweep: re-arming missed reminder for item %s", item.ID)
		s.Schedule(&item)
	}
}

func (s *Scheduler) armSweepLocked() {
	s.sweepTimer = s.clock.AfterFunc(s.sweepInterval, func() {
		s.Sweep()
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.stopped {
			s.armSweepLocked()
		}
	})
}

func (s *Scheduler) cancelLocked(id uuid.UUID) {
	if e, ok := s.entries[id]; ok {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(s.entries, id)
	}
}

// pending is a notification prepared under the lock and emitted outside it.
type pending struct {
	title, body, tag   string
	requireInteraction bool
}

func notificationFor(item *models.Item) pending {
	body := item.Title
	if item.Notes != "" {
		body = item.Title + "\n" + item.Notes
	}
	return pending{
		title:              "Reminder",
		body:               body,
		tag:                item.ID.String(),
		requireInteraction: true,
	}
}

func (s *Scheduler) fireDue(id uuid.UUID) {
	s.runCallback(id, func() {
		if n, ok := s.handleDue(id); ok {
			s.notifier.Notify(n.title, n.body, n.tag, n.requireInteraction)
		}
	})
}

func (s *Scheduler) handleDue(id uuid.UUID) (pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.state != Pending {
		return pending{}, false
	}

	// The item may have been edited, completed, or deleted since the timer
	// was armed; its current state wins.
	item, err := s.items.FindActive(id)
	if err != nil {
		log.Printf("[Scheduler] due check for item %s: %v", id, err)
		s.cancelLocked(id)
		return pending{}, false
	}
	if item == nil || item.DueDate == nil {
		s.cancelLocked(id)
		return pending{}, false
	}

	if item.ReminderRepeatCount <= 1 {
		s.settleLocked(id, e, item)
	} else {
		e.state = Fired
		e.repeatsRemaining = item.ReminderRepeatCount - 1
		e.timer = s.clock.AfterFunc(s.repeatInterval, func() { s.fireRepeat(id) })
	}
	return notificationFor(item), true
}

func (s *Scheduler) fireRepeat(id uuid.UUID) {
	s.runCallback(id, func() {
		if n, ok := s.handleRepeat(id); ok {
			s.notifier.Notify(n.title, n.body, n.tag, n.requireInteraction)
		}
	})
}

func (s *Scheduler) handleRepeat(id uuid.UUID) (pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.state != Fired {
		return pending{}, false
	}

	item, err := s.items.FindActive(id)
	if err != nil {
		log.Printf("[Scheduler] repeat check for item %s: %v", id, err)
		s.cancelLocked(id)
		return pending{}, false
	}
	if item == nil {
		s.cancelLocked(id)
		return pending{}, false
	}

	if e.repeatsRemaining <= 0 {
		s.settleLocked(id, e, item)
		return pending{}, false
	}

	e.repeatsRemaining--
	e.timer = s.clock.AfterFunc(s.repeatInterval, func() { s.fireRepeat(id) })
	return notificationFor(item), true
}

// settleLocked ends the notification phase. The entry stays in the map,
// timer-less, so the sweep keeps treating the still-due item as handled and
// never restarts an exhausted series; the entry is removed on cancel, on
// reschedule, and when auto-dismiss completes the item.
func (s *Scheduler) settleLocked(id uuid.UUID, e *entry, item *models.Item) {
	e.state = Settled
	e.timer = nil
	if item.AutoDismissAfterMinutes != nil && *item.AutoDismissAfterMinutes > 0 {
		delay := time.Duration(*item.AutoDismissAfterMinutes) * time.Minute
		e.timer = s.clock.AfterFunc(delay, func() { s.fireAutoDismiss(id) })
	}
}

func (s *Scheduler) fireAutoDismiss(id uuid.UUID) {
	s.runCallback(id, func() {
		s.mu.Lock()
		e, ok := s.entries[id]
		if !ok || e.state != Settled {
			s.mu.Unlock()
			return
		}
		delete(s.entries, id)
		fn := s.autoDismiss
		s.mu.Unlock()

		if fn == nil {
			return
		}
		// Completion re-validates the item; a user may have completed or
		// deleted it while this timer was pending.
		if err := fn(id); err != nil && !apperrors.IsNotFound(err) {
			log.Printf("[Scheduler] auto-dismiss of item %s: %v", id, err)
		}
	})
}

// runCallback guards a timer callback: errors are handled inline and a panic
// settles the entry rather than retrying, so a broken callback cannot cascade
// into duplicate notifications.
func (s *Scheduler) runCallback(id uuid.UUID, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Scheduler] callback for item %s panicked: %v", id, r)
			s.mu.Lock()
			s.cancelLocked(id)
			s.mu.Unlock()
		}
	}()
	fn()
}
