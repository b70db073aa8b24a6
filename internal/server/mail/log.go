package mail

import (
	"context"

	"github.com/dmitrijs2005/contactkeeper/internal/logging"
)

// LogSender writes messages to the log instead of delivering them. It is
// used when no SMTP relay is configured.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log.With("module", "mail")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	s.log.Info(ctx, "mail not delivered, smtp is not configured", "to", msg.To, "subject", msg.Subject, "body", msg.HTML)
	return nil
}
