package notification

import "context"

// EmailSender delivers one HTML email to one recipient and returns a message
// id. Each reminder recipient gets an independent Send call; a failure is
// recipient-scoped and never fatal.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}
