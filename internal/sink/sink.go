// Package sink holds the clients for the external systems a formatted
// ticket is delivered to: the work-item tracker and the transactional
// email API. Both are single-attempt, no-retry clients; the caller's
// per-kind policy decides whether a failure is fatal.
package sink

import "context"

// WorkItem describes one tracker work item to create.
type WorkItem struct {
	Type        string
	Title       string
	Description string
	Tags        string
	Priority    int
	AreaPath    string
}

// Message describes one notification email.
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    string
}

// Tracker creates work items in the external issue tracker.
type Tracker interface {
	CreateWorkItem(ctx context.Context, item WorkItem) (int, error)
}

// Email sends notification messages through the transactional email API.
type Email interface {
	Send(ctx context.Context, msg Message) error
}
