package ports

import (
	"context"
	"errors"
)

// ErrMailAuth marks an SMTP authentication failure. It is permanent for the
// message being sent: the dispatcher must not retry it.
var ErrMailAuth = errors.New("mail authentication failed")

// MailTransport delivers one plain-text message. Implementations must release
// the underlying connection on every exit path.
type MailTransport interface {
	Send(ctx context.Context, from, to, subject, body string) error
}
