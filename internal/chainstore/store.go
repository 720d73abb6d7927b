// Package chainstore persists the per-chain balance maps between executed
// blocks. A chain's rows are replaced atomically per block so a reader
// never observes a partially applied operation.
package chainstore

import (
	"context"

	"github.com/Alkamashekh01/linera-protocol/internal/fungible"
)

// Store is the contract implemented by chain-state backends (e.g.
// Postgres). Load returns an empty map for a chain it has never seen.
type Store interface {
	Load(ctx context.Context, chainID fungible.ChainID) (map[fungible.AccountOwner]fungible.Amount, error)
	Save(ctx context.Context, chainID fungible.ChainID, balances map[fungible.AccountOwner]fungible.Amount) error
}
