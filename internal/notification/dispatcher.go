package notification

import (
	"context"
	"log"
	"sync"
	"time"
)

// Dispatcher fans a notification out to every configured sink. With no sinks
// configured (no permission to notify, headless run) emission is a silent
// no-op and everything else proceeds unaffected.
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

// Send delivers to all sinks concurrently. Sink errors are logged, never
// propagated: a failed delivery must not fail the operation that caused it.
func (d *Dispatcher) Send(ctx context.Context, n Notification) {
	if len(d.sinks) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, sink := range d.sinks {
		wg.Add(1)
		go func(s Sink) {
			defer wg.Done()
			if err := s.Notify(ctx, n); err != nil {
				log.Printf("[Dispatcher] sink %T failed for tag %s: %v", s, n.Tag, err)
			}
		}(sink)
	}
	wg.Wait()
}

// Notify adapts Send to the scheduler's notifier contract.
func (d *Dispatcher) Notify(title, body, tag string, requireInteraction bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	d.Send(ctx, Notification{
		Title:              title,
		Body:               body,
		Tag:                tag,
		RequireInteraction: requireInteraction,
	})
}
