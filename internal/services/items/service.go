package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"lostfound/internal/domain"
	"lostfound/internal/ports"
)

var ErrInvalidItemType = errors.New("item type must be lost or found")

// Service posts and lists lost/found items.
type Service struct {
	store ports.DocumentStore
}

func New(store ports.DocumentStore) *Service { return &Service{store: store} }

// Report stores a new open item in the collection for its type.
func (s *Service) Report(ctx context.Context, req ports.ReportItem) (string, error) {
	if req.ItemType != domain.TypeLost && req.ItemType != domain.TypeFound {
		return "", ErrInvalidItemType
	}
	dateField := "dateFound"
	if req.ItemType == domain.TypeLost {
		dateField = "dateLost"
	}

	itemID := uuid.NewString()
	doc := domain.Record{
		"itemId":       itemID,
		"itemType":     req.ItemType,
		"itemName":     req.ItemName,
		"name":         req.Name,
		"email":        req.Email,
		"phone":        req.Phone,
		"status":       domain.StatusOpen,
		"dateReported": domain.ServerTimestamp{},
	}
	if req.Date != "" {
		doc[dateField] = req.Date
	}
	if err := s.store.Set(ctx, domain.ItemCollection(req.ItemType), itemID, doc); err != nil {
		return "", fmt.Errorf("store item: %w", err)
	}
	return itemID, nil
}

// ListOpen returns open items of one type, or of both when itemType is empty.
func (s *Service) ListOpen(ctx context.Context, itemType string) ([]domain.Record, error) {
	collections := []string{domain.LostItemCollection, domain.FoundItemCollection}
	switch itemType {
	case "":
	case domain.TypeLost:
		collections = collections[:1]
	case domain.TypeFound:
		collections = collections[1:]
	default:
		return nil, ErrInvalidItemType
	}

	out := []domain.Record{}
	for _, collection := range collections {
		recs, err := s.store.Query(ctx, collection, "status", domain.StatusOpen)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, err)
		}
		out = append(out, recs...)
	}
	return out, nil
}
