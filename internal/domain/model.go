package domain

// Records coming out of the document store have no fixed schema: legacy
// clients wrote contact and date fields under several alternate key names.
// Anything that reads individual fields goes through internal/resolve.

// Record is one schema-free document from the store.
type Record map[string]any

// ServerTimestamp marks a field the store stamps from its own clock on write.
type ServerTimestamp struct{}

// Collection names as the frontend created them.
const (
	ClaimCollection     = "claimRequests"
	LostItemCollection  = "lostItems"
	FoundItemCollection = "foundItems"
)

// Item types. Anything other than "lost" is treated as found.
const (
	TypeLost  = "lost"
	TypeFound = "found"
)

// Statuses, with the casing the stored data uses.
const (
	StatusOpen     = "open"
	StatusPending  = "pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// ItemCollection returns the collection an item of the given type lives in.
func ItemCollection(itemType string) string {
	if itemType == TypeLost {
		return LostItemCollection
	}
	return FoundItemCollection
}

// ItemTypeText normalizes an item type to the word used in notification text.
func ItemTypeText(itemType string) string {
	if itemType == TypeLost {
		return TypeLost
	}
	return TypeFound
}
