package fungible

import (
	"errors"
	"sort"
)

// ErrInsufficientBalance occurs when a debit exceeds the available balance.
// The operation or message that attempted it is rejected in full.
var ErrInsufficientBalance = errors.New("insufficient balance")

// State holds the account balances of exactly one chain. It is owned by
// that chain's sequential block execution and must never be shared across
// chains; all cross-chain effects travel as messages.
type State struct {
	chainID  ChainID
	balances map[AccountOwner]Amount
}

// NewState returns an empty state for a chain.
func NewState(chainID ChainID) *State {
	return &State{chainID: chainID, balances: make(map[AccountOwner]Amount)}
}

// NewStateFromBalances builds a state from a snapshot, copying the map and
// dropping zero entries (absence means zero).
func NewStateFromBalances(chainID ChainID, balances map[AccountOwner]Amount) *State {
	s := NewState(chainID)
	for owner, amount := range balances {
		if !amount.IsZero() {
			s.balances[owner] = amount
		}
	}
	return s
}

// ChainID returns the chain this state belongs to.
func (s *State) ChainID() ChainID { return s.chainID }

// Balance returns the owner's balance; absent owners hold zero.
func (s *State) Balance(owner AccountOwner) Amount {
	return s.balances[owner]
}

// Owners lists owners with a non-zero balance in deterministic order.
func (s *State) Owners() []AccountOwner {
	owners := make([]AccountOwner, 0, len(s.balances))
	for owner := range s.balances {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i].Compare(owners[j]) < 0 })
	return owners
}

// Balances returns a copy of the balance map, suitable for persistence.
func (s *State) Balances() map[AccountOwner]Amount {
	snapshot := make(map[AccountOwner]Amount, len(s.balances))
	for owner, amount := range s.balances {
		snapshot[owner] = amount
	}
	return snapshot
}

// TotalBalance sums every balance on this chain.
func (s *State) TotalBalance() (Amount, error) {
	var total Amount
	var err error
	for _, amount := range s.balances {
		if total, err = total.Add(amount); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// credit adds to an owner's balance, creating the entry if absent.
func (s *State) credit(owner AccountOwner, amount Amount) error {
	updated, err := s.balances[owner].Add(amount)
	if err != nil {
		return err
	}
	if !updated.IsZero() {
		s.balances[owner] = updated
	}
	return nil
}

// debit removes from an owner's balance, deleting the entry when it
// reaches zero.
func (s *State) debit(owner AccountOwner, amount Amount) error {
	updated, err := s.balances[owner].Sub(amount)
	if err != nil {
		return err
	}
	if updated.IsZero() {
		delete(s.balances, owner)
	} else {
		s.balances[owner] = updated
	}
	return nil
}
