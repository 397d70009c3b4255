package claims

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"lostfound/internal/domain"
	"lostfound/internal/logger"
	"lostfound/internal/ports"
)

var (
	ErrMissingClaimID = errors.New("claim ID is required")
	ErrMissingItemRef = errors.New("item type and item ID are required")
	ErrClaimNotFound  = errors.New("claim not found")
	ErrItemNotFound   = errors.New("item not found")
)

// Service owns the claim lifecycle: submission and the one-shot terminal
// transition to Approved or Rejected.
type Service struct {
	store    ports.DocumentStore
	notifier ports.Notifier
}

func New(store ports.DocumentStore, notifier ports.Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// Submit files a pending claim against an existing item.
func (s *Service) Submit(ctx context.Context, req ports.SubmitClaim) (string, error) {
	if req.ItemType == "" || req.ItemID == "" {
		return "", ErrMissingItemRef
	}
	if _, err := s.store.Get(ctx, domain.ItemCollection(req.ItemType), req.ItemID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return "", ErrItemNotFound
		}
		return "", fmt.Errorf("load item: %w", err)
	}

	claimID := uuid.NewString()
	err := s.store.Set(ctx, domain.ClaimCollection, claimID, domain.Record{
		"claimId":          claimID,
		"itemType":         req.ItemType,
		"itemId":           req.ItemID,
		"claimDescription": req.Description,
		"claimantName":     req.Name,
		"claimantEmail":    req.Email,
		"claimantPhone":    req.Phone,
		"status":           domain.StatusPending,
		"createdAt":        domain.ServerTimestamp{},
	})
	if err != nil {
		return "", fmt.Errorf("store claim: %w", err)
	}
	return claimID, nil
}

// Approve marks the claim Approved, marks the referenced item Approved when it
// can be found, and hands the pair to the notifier without waiting for it.
// The claim-status update is the operation of record; the item update and the
// notification are best-effort.
func (s *Service) Approve(ctx context.Context, claimID string) error {
	if claimID == "" {
		return ErrMissingClaimID
	}
	claim, err := s.store.Get(ctx, domain.ClaimCollection, claimID)
	if errors.Is(err, ports.ErrNotFound) {
		return ErrClaimNotFound
	}
	if err != nil {
		return fmt.Errorf("load claim: %w", err)
	}

	log := logger.FromContext(ctx)

	// A claim with a missing or dangling item reference still gets approved;
	// the notification just degrades.
	var item domain.Record
	itemType, _ := claim["itemType"].(string)
	itemID, _ := claim["itemId"].(string)
	collection := domain.ItemCollection(itemType)
	if itemID == "" {
		log.Warn("claim has no item reference, approving without item data", "claimId", claimID)
	} else if item, err = s.store.Get(ctx, collection, itemID); err != nil {
		log.Warn("item lookup failed, approving without item data",
			"claimId", claimID, "itemId", itemID, "error", err)
		item = nil
	}

	if err := s.store.Update(ctx, domain.ClaimCollection, claimID, domain.Record{
		"status":     domain.StatusApproved,
		"actionDate": domain.ServerTimestamp{},
	}); err != nil {
		return fmt.Errorf("update claim status: %w", err)
	}

	if item != nil {
		if err := s.store.Update(ctx, collection, itemID, domain.Record{
			"status": domain.StatusApproved,
		}); err != nil {
			log.Error("item status update failed", "itemId", itemID, "error", err)
		}
	}

	go s.notifier.Dispatch(item, claim)
	return nil
}

// Reject marks the claim Rejected. No notification is sent.
func (s *Service) Reject(ctx context.Context, claimID string) error {
	if claimID == "" {
		return ErrMissingClaimID
	}
	if _, err := s.store.Get(ctx, domain.ClaimCollection, claimID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrClaimNotFound
		}
		return fmt.Errorf("load claim: %w", err)
	}
	if err := s.store.Update(ctx, domain.ClaimCollection, claimID, domain.Record{
		"status":     domain.StatusRejected,
		"actionDate": domain.ServerTimestamp{},
	}); err != nil {
		return fmt.Errorf("update claim status: %w", err)
	}
	return nil
}
