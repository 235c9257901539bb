package email

import (
	"context"
	"time"
)

// Message is one outgoing notification.
type Message struct {
	To      []string
	From    string // defaults to the sender's configured address
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Receipt is the provider's acknowledgement of a message.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers messages via an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
