package chainstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Alkamashekh01/linera-protocol/internal/fungible"
)

// PostgresStore persists chain balances in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS chain_accounts (
//	    chain_id  TEXT NOT NULL,
//	    owner_key TEXT NOT NULL,
//	    amount    TEXT NOT NULL,
//	    PRIMARY KEY (chain_id, owner_key)
//	);
//
// Amounts are stored as decimal text of base units; BIGINT cannot hold the
// full unsigned range.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed store.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS chain_accounts (
        chain_id  TEXT NOT NULL,
        owner_key TEXT NOT NULL,
        amount    TEXT NOT NULL,
        PRIMARY KEY (chain_id, owner_key))`)
	return err
}

// Load reads every balance recorded for the chain.
func (s *PostgresStore) Load(ctx context.Context, chainID fungible.ChainID) (map[fungible.AccountOwner]fungible.Amount, error) {
	rows, err := s.db.Query(ctx, `SELECT owner_key, amount FROM chain_accounts WHERE chain_id = $1`, string(chainID))
	if err != nil {
		return nil, fmt.Errorf("load chain %s: %w", chainID, err)
	}
	defer rows.Close()

	balances := make(map[fungible.AccountOwner]fungible.Amount)
	for rows.Next() {
		var ownerKey, amountText string
		if err := rows.Scan(&ownerKey, &amountText); err != nil {
			return nil, err
		}
		owner, err := fungible.ParseAccountOwner(ownerKey)
		if err != nil {
			return nil, fmt.Errorf("chain %s holds bad owner key: %w", chainID, err)
		}
		units, err := strconv.ParseUint(amountText, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chain %s holds bad amount for %s: %w", chainID, ownerKey, err)
		}
		balances[owner] = fungible.Amount(units)
	}
	return balances, rows.Err()
}

// Save replaces the chain's rows with the given snapshot in one
// transaction, keeping persisted state atomic per executed block.
func (s *PostgresStore) Save(ctx context.Context, chainID fungible.ChainID, balances map[fungible.AccountOwner]fungible.Amount) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM chain_accounts WHERE chain_id = $1`, string(chainID)); err != nil {
		return err
	}
	for owner, amount := range balances {
		if amount.IsZero() {
			continue
		}
		if _, err := tx.Exec(ctx, `INSERT INTO chain_accounts (chain_id, owner_key, amount) VALUES ($1, $2, $3)`,
			string(chainID), owner.String(), strconv.FormatUint(uint64(amount), 10)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
