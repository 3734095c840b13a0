package notification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

const (
	// KindSignup is emitted when a new account is created.
	KindSignup = "account_signup"
	// KindLeadCaptured is emitted when the waitlist form stores an email.
	KindLeadCaptured = "lead_captured"
)

// Message describes a notification payload. Email holds the address the event
// concerns; sinks that persist or print it should mask it.
type Message struct {
	Kind        string
	Destination string
	Email       string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger with the
// address masked.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	attrs := []any{
		slog.String("kind", message.Kind),
		slog.String("destination", message.Destination),
	}
	if message.Email != "" {
		attrs = append(attrs, slog.String("email", MaskEmail(message.Email)))
	}
	if message.Body != "" {
		attrs = append(attrs, slog.String("body", message.Body))
	}
	n.logger.InfoContext(ctx, "notification", attrs...)
	return nil
}

// Fanout sends every message to each notifier and joins their errors.
type Fanout []Notifier

func (f Fanout) Send(ctx context.Context, message Message) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MaskEmail keeps the first character of the local part and the domain:
// "ada@example.com" becomes "a***@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
