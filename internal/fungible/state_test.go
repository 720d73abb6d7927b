package fungible

import (
	"errors"
	"math"
	"testing"
)

func TestStateAbsentOwnerIsZero(t *testing.T) {
	s := NewState("chain-a")
	if !s.Balance(UserOwner("ab")).IsZero() {
		t.Fatalf("absent owner should read zero")
	}
}

func TestStateCreditAndDebit(t *testing.T) {
	s := NewState("chain-a")
	alice := UserOwner("aa")

	if err := s.credit(alice, MustAmount(10)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if s.Balance(alice) != MustAmount(10) {
		t.Fatalf("unexpected balance %v", s.Balance(alice))
	}
	if err := s.debit(alice, MustAmount(4)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if s.Balance(alice) != MustAmount(6) {
		t.Fatalf("unexpected balance %v", s.Balance(alice))
	}
}

func TestStateDebitInsufficient(t *testing.T) {
	s := NewState("chain-a")
	alice := UserOwner("aa")
	if err := s.credit(alice, MustAmount(1)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := s.debit(alice, MustAmount(2)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if s.Balance(alice) != MustAmount(1) {
		t.Fatalf("failed debit must not change the balance")
	}
}

func TestStateDropsZeroEntries(t *testing.T) {
	s := NewState("chain-a")
	alice := UserOwner("aa")
	if err := s.credit(alice, MustAmount(5)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := s.debit(alice, MustAmount(5)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if len(s.Owners()) != 0 {
		t.Fatalf("zero-balance entry should be removed")
	}
	if !s.Balance(alice).IsZero() {
		t.Fatalf("removed entry should still read zero")
	}
}

func TestStateCreditOverflow(t *testing.T) {
	s := NewState("chain-a")
	alice := UserOwner("aa")
	if err := s.credit(alice, Amount(math.MaxUint64)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := s.credit(alice, 1); !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestStateOwnersDeterministicOrder(t *testing.T) {
	s := NewStateFromBalances("chain-a", map[AccountOwner]Amount{
		UserOwner("bb"):        MustAmount(1),
		ApplicationOwner("aa"): MustAmount(1),
		UserOwner("aa"):        MustAmount(1),
	})
	owners := s.Owners()
	want := []AccountOwner{UserOwner("aa"), UserOwner("bb"), ApplicationOwner("aa")}
	if len(owners) != len(want) {
		t.Fatalf("unexpected owners %v", owners)
	}
	for i := range want {
		if owners[i] != want[i] {
			t.Fatalf("owners[%d] = %v, want %v", i, owners[i], want[i])
		}
	}
}

func TestNewStateFromBalancesDropsZeros(t *testing.T) {
	s := NewStateFromBalances("chain-a", map[AccountOwner]Amount{
		UserOwner("aa"): 0,
		UserOwner("bb"): MustAmount(2),
	})
	if len(s.Owners()) != 1 {
		t.Fatalf("zero entries should not be loaded")
	}
}
