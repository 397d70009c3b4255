// Package notifier delivers approval notifications off the request path.
// Delivery is best-effort: nothing here is ever surfaced to the HTTP caller.
package notifier

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sethvargo/go-retry"

	"lostfound/internal/domain"
	"lostfound/internal/ports"
)

// Policy bounds one dispatch: a wall-clock budget across both messages and a
// constant-delay bounded retry per message. Auth failures are never retried.
type Policy struct {
	Budget     time.Duration
	Retries    uint64
	RetryDelay time.Duration
}

// Dispatcher implements ports.Notifier over a mail transport.
type Dispatcher struct {
	transport ports.MailTransport
	clock     clockwork.Clock
	from      string
	policy    Policy
	log       *slog.Logger
}

func New(transport ports.MailTransport, clock clockwork.Clock, from string, policy Policy, log *slog.Logger) *Dispatcher {
	return &Dispatcher{transport: transport, clock: clock, from: from, policy: policy, log: log}
}

// Dispatch resolves both contact profiles and attempts up to two sends.
// The deadline is checked between messages: once the budget is spent the
// remaining message is skipped and the dispatch reports a partial outcome.
func (d *Dispatcher) Dispatch(item, claim domain.Record) ports.DispatchOutcome {
	deadline := d.clock.Now().Add(d.policy.Budget)
	ctx, cancel := context.WithTimeout(context.Background(), d.policy.Budget)
	defer cancel()

	msgs := Messages(item, claim)
	if len(msgs) == 0 {
		d.log.Warn("no notifiable email address on either side, nothing sent")
		return ports.DispatchNone
	}

	sent := 0
	for i, msg := range msgs {
		if i > 0 && !d.clock.Now().Before(deadline) {
			d.log.Warn("notification budget exhausted, skipping message", "to", msg.To)
			break
		}
		if err := d.send(ctx, msg); err != nil {
			d.log.Error("notification send failed", "to", msg.To, "error", err)
			continue
		}
		sent++
	}

	var outcome ports.DispatchOutcome
	switch {
	case sent == len(msgs):
		outcome = ports.DispatchAll
	case sent > 0:
		outcome = ports.DispatchPartial
	default:
		outcome = ports.DispatchNone
	}
	d.log.Info("notification dispatch finished",
		"outcome", outcome.String(), "sent", sent, "messages", len(msgs))
	return outcome
}

func (d *Dispatcher) send(ctx context.Context, msg Message) error {
	backoff := retry.WithMaxRetries(d.policy.Retries, retry.NewConstant(d.policy.RetryDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := d.transport.Send(ctx, d.from, msg.To, msg.Subject, msg.Body)
		if err == nil {
			return nil
		}
		if errors.Is(err, ports.ErrMailAuth) {
			return err
		}
		return retry.RetryableError(err)
	})
}
