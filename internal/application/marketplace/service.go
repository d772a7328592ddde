package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"sheettochain-backend/internal/domain"
	"sheettochain-backend/internal/infrastructure/kv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxRating is the rating assigned to newly created and synchronized listings.
const MaxRating = 5

// Options configures the ledger. Zero values fall back to the documented
// defaults in New.
type Options struct {
	TreasuryAccount          string
	DefaultPrice             float64
	DefaultCategories        []string
	AllowUnconfirmedTransfer bool
}

// Service is the listing & purchase ledger: the authoritative in-process copy
// of both collections, synchronized from the minted-tokens slot and persisted
// back to the store after every mutation. It is the single writer of its two
// slots; construct it once and share it.
type Service struct {
	mu        sync.Mutex
	store     kv.Store
	opts      Options
	listings  []domain.Listing
	purchases []domain.Purchase
}

// New loads persisted state and runs one synchronization pass. A nil store or
// corrupt persisted state degrades to empty in-memory collections; New never
// fails.
func New(store kv.Store, opts Options) *Service {
	if opts.TreasuryAccount == "" {
		opts.TreasuryAccount = "0.0.6990992"
	}
	if opts.DefaultPrice == 0 {
		opts.DefaultPrice = 2.5
	}
	if opts.DefaultCategories == nil {
		opts.DefaultCategories = []string{"CSV", "Tokenized Data"}
	}
	s := &Service{store: store, opts: opts}
	s.load()
	s.mu.Lock()
	s.syncLocked(context.Background())
	s.mu.Unlock()
	return s
}

func (s *Service) load() {
	if s.store == nil {
		return
	}
	ctx := context.Background()
	s.listings = loadSlot[domain.Listing](ctx, s.store, kv.SlotListings)
	s.purchases = loadSlot[domain.Purchase](ctx, s.store, kv.SlotPurchases)
}

func loadSlot[T any](ctx context.Context, store kv.Store, slot string) []T {
	raw, err := store.Get(ctx, slot)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn().Err(err).Str("slot", slot).Msg("Failed to load slot; starting empty")
		}
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Warn().Err(err).Str("slot", slot).Msg("Corrupt slot data; starting empty")
		return nil
	}
	return out
}

// persistLocked writes both collections back to the store. Save failures are
// logged, never surfaced; the in-memory state stays authoritative for this
// process lifetime.
func (s *Service) persistLocked(ctx context.Context) {
	if s.store == nil {
		return
	}
	if b, err := json.Marshal(s.listings); err == nil {
		if err := s.store.Set(ctx, kv.SlotListings, b); err != nil {
			log.Warn().Err(err).Msg("Failed to persist listings")
		}
	}
	if b, err := json.Marshal(s.purchases); err == nil {
		if err := s.store.Set(ctx, kv.SlotPurchases, b); err != nil {
			log.Warn().Err(err).Msg("Failed to persist purchases")
		}
	}
}

// Sync reconciles minted-token entries into listings. Idempotent: an entry
// already represented (matched by its derived tokenized identity) is skipped.
// Malformed entries are patched with defaults, never dropped. Storage faults
// leave the current state untouched.
func (s *Service) Sync(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncLocked(ctx)
}

func (s *Service) syncLocked(ctx context.Context) int {
	if s.store == nil {
		return 0
	}
	raw, err := s.store.Get(ctx, kv.SlotMintedTokens)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn().Err(err).Msg("Failed to read minted tokens; skipping sync pass")
		}
		return 0
	}
	var tokens []domain.MintedToken
	if err := json.Unmarshal(raw, &tokens); err != nil {
		log.Warn().Err(err).Msg("Corrupt minted-tokens record; skipping sync pass")
		return 0
	}

	added := 0
	for _, tok := range tokens {
		id := fmt.Sprintf("tokenized_%s_%d", tok.TokenID, tok.SerialNumber)
		if s.indexOfLocked(id) >= 0 {
			continue
		}
		s.listings = append(s.listings, s.listingFromToken(id, tok))
		added++
	}
	if added > 0 {
		s.persistLocked(ctx)
	}
	return added
}

// listingFromToken derives a Listing from a minted-token entry, substituting
// defaults for missing metadata.
func (s *Service) listingFromToken(id string, tok domain.MintedToken) domain.Listing {
	meta := tok.Metadata

	fileName := meta.FileName
	if fileName == "" {
		fileName = fmt.Sprintf("dataset_%d", time.Now().UnixMilli())
	}
	name := strings.TrimSuffix(fileName, ".csv")
	name = strings.TrimSuffix(name, ".CSV")

	rows := meta.RowCount
	if rows == 0 && meta.Summary != nil {
		rows = meta.Summary.TotalRows
	}
	rowLabel := "unknown"
	if rows > 0 {
		rowLabel = fmt.Sprintf("%d", rows)
	}

	hash := meta.Hash
	if hash == "" {
		hash = fmt.Sprintf("%s-%d", tok.TokenID, tok.SerialNumber)
	}

	ts := time.Now().UTC()
	if tok.Timestamp != nil {
		ts = *tok.Timestamp
	}

	return domain.Listing{
		ID:          id,
		Name:        name,
		Description: fmt.Sprintf("Tokenized CSV dataset with %s rows", rowLabel),
		Price:       s.opts.DefaultPrice,
		Rows:        rows,
		Categories:  append([]string(nil), s.opts.DefaultCategories...),
		Seller:      s.opts.TreasuryAccount,
		Timestamp:   ts,
		DataHash:    hash,
		Rating:      MaxRating,
		Purchases:   0,
	}
}

// CreateListingInput carries the seller-provided fields for a new listing.
// Validation (non-empty name/description/categories, non-negative price) is
// the caller's job; the ledger records whatever it is given.
type CreateListingInput struct {
	Name        string
	Description string
	Price       float64
	Rows        int
	Categories  []string
	Seller      string
	DataHash    string
	FileURL     string
	Preview     []string
}

// CreateListing appends a new listing with a generated identity and persists.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing := domain.Listing{
		ID:          newID("listing"),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Rows:        in.Rows,
		Categories:  append([]string(nil), in.Categories...),
		Seller:      in.Seller,
		Timestamp:   time.Now().UTC(),
		DataHash:    in.DataHash,
		FileURL:     in.FileURL,
		Preview:     append([]string(nil), in.Preview...),
		Rating:      MaxRating,
		Purchases:   0,
	}
	s.listings = append(s.listings, listing)
	s.persistLocked(ctx)
	return listing.Clone()
}

// Listings returns a snapshot of all listings in insertion order. It does not
// synchronize; callers wanting freshness call Sync first.
func (s *Service) Listings() []domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Listing, len(s.listings))
	for i, l := range s.listings {
		out[i] = l.Clone()
	}
	return out
}

// ListingByID returns a copy of the listing, or false if absent.
func (s *Service) ListingByID(id string) (domain.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOfLocked(id); i >= 0 {
		return s.listings[i].Clone(), true
	}
	return domain.Listing{}, false
}

// Search returns listings whose name or description contains the query,
// case-insensitively.
func (s *Service) Search(query string) []domain.Listing {
	q := strings.ToLower(query)
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, l := range s.listings {
		if strings.Contains(strings.ToLower(l.Name), q) || strings.Contains(strings.ToLower(l.Description), q) {
			out = append(out, l.Clone())
		}
	}
	return out
}

// ByCategory returns listings carrying the exact category tag.
func (s *Service) ByCategory(category string) []domain.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Listing
	for _, l := range s.listings {
		for _, c := range l.Categories {
			if c == category {
				out = append(out, l.Clone())
				break
			}
		}
	}
	return out
}

// RecordPurchaseInput carries one purchase attempt. Amount-vs-price and
// transfer-success checks are the caller's responsibility.
type RecordPurchaseInput struct {
	BuyerID       string
	SellerID      string
	ListingID     string
	Amount        float64
	TransactionID string
	Status        domain.PurchaseStatus // empty means completed
}

// RecordPurchase appends a purchase and persists. A completed purchase bumps
// the referenced listing's counter; a missing listing is skipped, not an
// error. Purchases are immutable once recorded.
func (s *Service) RecordPurchase(ctx context.Context, in RecordPurchaseInput) domain.Purchase {
	status := in.Status
	if status == "" {
		status = domain.PurchaseCompleted
	}
	purchase := domain.Purchase{
		ID:            newID("purchase"),
		BuyerID:       in.BuyerID,
		SellerID:      in.SellerID,
		DataID:        in.ListingID,
		Amount:        in.Amount,
		Timestamp:     time.Now().UTC(),
		TransactionID: in.TransactionID,
		Status:        status,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases = append(s.purchases, purchase)
	if status == domain.PurchaseCompleted {
		if i := s.indexOfLocked(in.ListingID); i >= 0 {
			s.listings[i].Purchases++
		}
	}
	s.persistLocked(ctx)
	return purchase
}

// PurchasesByBuyer returns all purchases made by the account.
func (s *Service) PurchasesByBuyer(buyerID string) []domain.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Purchase
	for _, p := range s.purchases {
		if p.BuyerID == buyerID {
			out = append(out, p)
		}
	}
	return out
}

// PurchasesBySeller returns all purchases received by the account.
func (s *Service) PurchasesBySeller(sellerID string) []domain.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Purchase
	for _, p := range s.purchases {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out
}

// PurchaseByID returns the purchase, or false if absent.
func (s *Service) PurchaseByID(id string) (domain.Purchase, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.purchases {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Purchase{}, false
}

// DeleteListing removes the listing and persists. Purchases referencing it
// are kept untouched; purchase history is immutable.
func (s *Service) DeleteListing(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return false
	}
	s.listings = append(s.listings[:i], s.listings[i+1:]...)
	s.persistLocked(ctx)
	return true
}

// ListingPatch is a partial field set for UpdateListing. Nil pointers and nil
// slices leave the field unchanged.
type ListingPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Rows        *int
	Categories  []string
	FileURL     *string
	Preview     []string
	Rating      *float64
}

// UpdateListing merges the patch into the listing in place, persists, and
// returns the updated copy. A missing listing is a no-op returning false.
func (s *Service) UpdateListing(ctx context.Context, id string, patch ListingPatch) (domain.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(id)
	if i < 0 {
		return domain.Listing{}, false
	}
	l := &s.listings[i]
	if patch.Name != nil {
		l.Name = *patch.Name
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.Price != nil {
		l.Price = *patch.Price
	}
	if patch.Rows != nil {
		l.Rows = *patch.Rows
	}
	if patch.Categories != nil {
		l.Categories = append([]string(nil), patch.Categories...)
	}
	if patch.FileURL != nil {
		l.FileURL = *patch.FileURL
	}
	if patch.Preview != nil {
		l.Preview = append([]string(nil), patch.Preview...)
	}
	if patch.Rating != nil {
		l.Rating = *patch.Rating
	}
	s.persistLocked(ctx)
	return l.Clone(), true
}

// Stats is the aggregate marketplace view.
type Stats struct {
	TotalListings  int     `json:"totalListings"`
	TotalPurchases int     `json:"totalPurchases"`
	TotalVolume    float64 `json:"totalVolume"`
	AveragePrice   float64 `json:"averagePrice"` // mean listing price, 2 decimals; 0 for an empty set
}

// MarketplaceStats computes counts, total purchase volume, and the mean
// listing price rounded to two decimal places.
func (s *Service) MarketplaceStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		TotalListings:  len(s.listings),
		TotalPurchases: len(s.purchases),
	}
	for _, p := range s.purchases {
		st.TotalVolume += p.Amount
	}
	if len(s.listings) > 0 {
		var sum float64
		for _, l := range s.listings {
			sum += l.Price
		}
		st.AveragePrice = math.Round(sum/float64(len(s.listings))*100) / 100
	}
	return st
}

// AllowUnconfirmedTransfer reports the configured purchase-confirmation
// policy (see Options).
func (s *Service) AllowUnconfirmedTransfer() bool {
	return s.opts.AllowUnconfirmedTransfer
}

func (s *Service) indexOfLocked(id string) int {
	for i, l := range s.listings {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// newID builds identities like listing_1730000000000_1a2b3c4d, matching the
// frontend's <prefix>_<ts>_<rand> format.
func newID(prefix string) string {
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), strings.Split(uuid.NewString(), "-")[0])
}
