package chainstore

import (
	"context"
	"testing"

	"github.com/Alkamashekh01/linera-protocol/internal/fungible"
)

func TestInMemorySaveLoad(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	alice := fungible.UserOwner("a1ce")

	balances, err := store.Load(ctx, "chain-a")
	if err != nil {
		t.Fatalf("load unknown chain: %v", err)
	}
	if len(balances) != 0 {
		t.Fatalf("unknown chain should load empty")
	}

	if err := store.Save(ctx, "chain-a", map[fungible.AccountOwner]fungible.Amount{alice: fungible.MustAmount(5)}); err != nil {
		t.Fatalf("save: %v", err)
	}
	balances, err = store.Load(ctx, "chain-a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if balances[alice] != fungible.MustAmount(5) {
		t.Fatalf("unexpected balances %v", balances)
	}
}

func TestInMemoryChainsAreIsolated(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	alice := fungible.UserOwner("a1ce")

	Seed(store, "chain-a", alice, fungible.MustAmount(7))
	balances, err := store.Load(ctx, "chain-b")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(balances) != 0 {
		t.Fatalf("chain-b must not see chain-a's balances")
	}
}

func TestInMemoryLoadReturnsCopy(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	alice := fungible.UserOwner("a1ce")

	Seed(store, "chain-a", alice, fungible.MustAmount(7))
	balances, _ := store.Load(ctx, "chain-a")
	balances[alice] = fungible.MustAmount(999)

	again, _ := store.Load(ctx, "chain-a")
	if again[alice] != fungible.MustAmount(7) {
		t.Fatalf("mutating a snapshot must not touch the store")
	}
}
