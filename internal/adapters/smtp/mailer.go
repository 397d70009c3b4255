// Package smtp delivers notification mail over authenticated STARTTLS SMTP.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"time"

	"github.com/wneessen/go-mail"

	"lostfound/internal/ports"
)

// Mailer implements ports.MailTransport. Each Send dials a fresh connection
// with a short timeout so one slow attempt cannot pin the dispatcher, and
// DialAndSend closes it on every exit path.
type Mailer struct {
	host    string
	port    int
	user    string
	pass    string
	timeout time.Duration
}

func New(host string, port int, user, pass string, timeout time.Duration) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, timeout: timeout}
}

func (m *Mailer) Send(ctx context.Context, from, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.pass),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithTimeout(m.timeout),
	)
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps SMTP auth rejections onto ports.ErrMailAuth so the dispatcher
// can tell permanent failures from transient ones.
func classify(err error) error {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		switch proto.Code {
		case 530, 534, 535:
			return fmt.Errorf("%w: %s", ports.ErrMailAuth, proto.Msg)
		}
	}
	return err
}
