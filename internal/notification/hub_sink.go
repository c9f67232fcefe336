package notification

import (
	"context"

	"github.com/user/ticklist/internal/pubsub"
)

// HubSink publishes notifications to the event hub, where the websocket
// endpoint forwards them to any connected front end.
type HubSink struct {
	hub *pubsub.Hub
}

func NewHubSink(hub *pubsub.Hub) *HubSink {
	return &HubSink{hub: hub}
}

func (s *HubSink) Notify(ctx context.Context, n Notification) error {
	s.hub.Broadcast(pubsub.Event{
		Type:    "notification",
		Payload: n,
	})
	return nil
}
