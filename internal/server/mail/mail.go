// Package mail sends transactional emails: the SMTP transport used in
// production and a logging fallback for unconfigured environments.
package mail

import (
	"context"
	"errors"
)

var ErrNoRecipient = errors.New("mail: no recipient")

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages. Implementations must honour ctx cancellation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
