package notification

import "context"

// Notification is one reminder delivery. Tag equals the item id so that a
// later notification for the same item supersedes rather than stacks.
type Notification struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	Tag                string `json:"tag"`
	RequireInteraction bool   `json:"require_interaction"`
}

// Sink delivers notifications to one destination. Delivery is best effort;
// a sink failure never affects scheduling or lifecycle semantics.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}
