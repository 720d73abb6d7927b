package chainstore

import (
	"context"
	"sync"

	"github.com/Alkamashekh01/linera-protocol/internal/fungible"
)

type inMemoryStore struct {
	mu     sync.RWMutex
	chains map[fungible.ChainID]map[fungible.AccountOwner]fungible.Amount
}

// NewInMemory creates a concurrency-safe in-memory store used in tests and
// when no database is configured.
func NewInMemory() Store {
	return &inMemoryStore{chains: make(map[fungible.ChainID]map[fungible.AccountOwner]fungible.Amount)}
}

func (s *inMemoryStore) Load(_ context.Context, chainID fungible.ChainID) (map[fungible.AccountOwner]fungible.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	balances := make(map[fungible.AccountOwner]fungible.Amount, len(s.chains[chainID]))
	for owner, amount := range s.chains[chainID] {
		balances[owner] = amount
	}
	return balances, nil
}

func (s *inMemoryStore) Save(_ context.Context, chainID fungible.ChainID, balances map[fungible.AccountOwner]fungible.Amount) error {
	snapshot := make(map[fungible.AccountOwner]fungible.Amount, len(balances))
	for owner, amount := range balances {
		snapshot[owner] = amount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chains[chainID] = snapshot
	return nil
}
