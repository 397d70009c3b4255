package ports

import (
	"context"

	"lostfound/internal/domain"
)

// SubmitClaim is the input for filing a claim against an item.
type SubmitClaim struct {
	ItemType    string
	ItemID      string
	Description string
	Name        string
	Email       string
	Phone       string
}

// ReportItem is the input for posting a lost or found item.
type ReportItem struct {
	ItemType string
	ItemName string
	Date     string
	Name     string
	Email    string
	Phone    string
}

// Claims files claims and resolves them through their terminal transition.
type Claims interface {
	Submit(ctx context.Context, req SubmitClaim) (claimID string, err error)
	Approve(ctx context.Context, claimID string) error
	Reject(ctx context.Context, claimID string) error
}

// Items posts and lists lost/found items.
type Items interface {
	Report(ctx context.Context, req ReportItem) (itemID string, err error)
	ListOpen(ctx context.Context, itemType string) ([]domain.Record, error)
}
