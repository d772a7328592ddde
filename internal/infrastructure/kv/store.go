package kv

import "context"

// Slot names. The listings/purchases slots are owned by the marketplace
// ledger; the minted-tokens slot is written by the mint flow and only read by
// the ledger. The names match the browser localStorage keys the frontend used
// so existing exports stay importable.
const (
	SlotListings     = "marketplace_listings"
	SlotPurchases    = "marketplace_purchases"
	SlotMintedTokens = "minted-nfts"
)

// Store is a named-slot byte store. Implementations must return ErrNotFound
// from Get for a slot that was never written.
type Store interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, value []byte) error
}

// Pinger is implemented by stores that can report backend connectivity (for
// the health dashboard).
type Pinger interface {
	Ping(ctx context.Context) error
}
