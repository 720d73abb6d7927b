package chainstore

import (
	"github.com/Alkamashekh01/linera-protocol/internal/fungible"
)

// Seed is a test helper that writes a balance directly into the in-memory
// store, bypassing block execution.
func Seed(s Store, chainID fungible.ChainID, owner fungible.AccountOwner, amount fungible.Amount) {
	if mem, ok := s.(*inMemoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if mem.chains[chainID] == nil {
			mem.chains[chainID] = make(map[fungible.AccountOwner]fungible.Amount)
		}
		mem.chains[chainID][owner] = amount
	}
}
