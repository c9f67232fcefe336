package notification

import (
	"context"
	"log"
)

// LogSink writes notifications to the process log. Always configured; it is
// what makes a headless run observable.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) Notify(ctx context.Context, n Notification) error {
	log.Printf("[Notify] %s: %s (tag=%s)", n.Title, n.Body, n.Tag)
	return nil
}
