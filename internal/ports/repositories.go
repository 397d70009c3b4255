package ports

import (
	"context"
	"errors"

	"lostfound/internal/domain"
)

// ErrNotFound is returned by DocumentStore when a record does not exist.
var ErrNotFound = errors.New("not found")

// DocumentStore is the Firestore-shaped interface the service layer consumes.
// Records are fetched and written whole or merged field-wise; a
// domain.ServerTimestamp value in a write is stamped by the store's clock.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (domain.Record, error)
	Set(ctx context.Context, collection, id string, doc domain.Record) error
	Update(ctx context.Context, collection, id string, fields domain.Record) error
	Query(ctx context.Context, collection, field, value string) ([]domain.Record, error)
	Ping(ctx context.Context) error
}
