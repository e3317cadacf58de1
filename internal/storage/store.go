package storage

import "context"

// Collection names shared across the app.
const (
	CollectionClothes            = "clothes"
	CollectionOutfits            = "outfits"
	CollectionTryOnHistory       = "tryon_history"
	CollectionTryOnUsage         = "tryon_usage"
	CollectionSubscriptionStatus = "subscription_status"
)

// Store is simple whole-collection persistence: non-transactional,
// last-write-wins. GetAll returns nil data (and no error) for a collection
// that has never been written.
type Store interface {
	GetAll(ctx context.Context, collection string) ([]byte, error)
	SetAll(ctx context.Context, collection string, data []byte) error
}
