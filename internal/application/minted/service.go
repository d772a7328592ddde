package minted

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"sheettochain-backend/internal/domain"
	"sheettochain-backend/internal/infrastructure/kv"
)

// Service appends mint results to the minted-tokens slot. It is the only
// writer of that slot; the marketplace ledger reads it during sync passes.
type Service struct {
	mu    sync.Mutex
	Store kv.Store
}

func New(store kv.Store) *Service {
	return &Service{Store: store}
}

// Record appends one minted token to the slot. The read-modify-write is
// serialized by the service mutex.
func (s *Service) Record(ctx context.Context, token domain.MintedToken) error {
	if s.Store == nil {
		return errors.New("minted: no store configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.readLocked(ctx)
	if err != nil {
		return err
	}
	tokens = append(tokens, token)
	b, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return s.Store.Set(ctx, kv.SlotMintedTokens, b)
}

// All returns every recorded minted token, oldest first.
func (s *Service) All(ctx context.Context) ([]domain.MintedToken, error) {
	if s.Store == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(ctx)
}

func (s *Service) readLocked(ctx context.Context) ([]domain.MintedToken, error) {
	raw, err := s.Store.Get(ctx, kv.SlotMintedTokens)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var tokens []domain.MintedToken
	if err := json.Unmarshal(raw, &tokens); err != nil {
		// Corrupt slot: start a fresh record rather than blocking mints.
		return nil, nil
	}
	return tokens, nil
}
