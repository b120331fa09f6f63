// Package mail provides the outbound notification capability. Services hold a
// Sender constructed once at process start; delivery is best-effort and no
// delivery confirmation is surfaced back to callers beyond the returned error.
package mail

import "context"

// Message is a single outbound email. HTML and Text are alternative bodies;
// either may be empty.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Discard is a Sender that drops every message. Useful when no SMTP transport
// is configured.
var Discard Sender = SenderFunc(func(context.Context, Message) error { return nil })
