package ports

import "lostfound/internal/domain"

// DispatchOutcome is the tri-state result of one notification dispatch.
// It exists for logging only; the HTTP response has already been sent by the
// time a dispatch finishes.
type DispatchOutcome int

const (
	DispatchNone DispatchOutcome = iota
	DispatchPartial
	DispatchAll
)

func (o DispatchOutcome) String() string {
	switch o {
	case DispatchAll:
		return "all sent"
	case DispatchPartial:
		return "partially sent"
	default:
		return "not sent"
	}
}

// Notifier delivers approval notifications for an item/claim pair.
// Callers invoke it off the request path and do not wait for the outcome.
type Notifier interface {
	Dispatch(item, claim domain.Record) DispatchOutcome
}
