package ports

import "context"

// EmailNotification is a single outbound message.
type EmailNotification struct {
	To      string
	Subject string
	Body    string
}

// EmailSender delivers a notification to its recipient.
type EmailSender interface {
	Send(ctx context.Context, msg EmailNotification) error
}

// EmailQueue accepts notifications for asynchronous, fire-and-forget delivery.
type EmailQueue interface {
	Enqueue(msg EmailNotification)
}
