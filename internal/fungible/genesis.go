package fungible

import (
	"encoding/json"
	"fmt"
)

// Genesis is the initial token distribution, supplied once at application
// instantiation. Total supply is the sum of its amounts; no mint path
// exists afterwards.
type Genesis struct {
	Accounts map[AccountOwner]Amount `json:"accounts"`
}

// ParseGenesis decodes the instantiation argument, a JSON object of the
// form {"accounts": {"User:<id>": "<amount>", ...}}.
func ParseGenesis(data []byte) (Genesis, error) {
	var g Genesis
	if err := json.Unmarshal(data, &g); err != nil {
		return Genesis{}, fmt.Errorf("parse genesis: %w", err)
	}
	return g, nil
}

// TotalSupply sums the initial distribution.
func (g Genesis) TotalSupply() (Amount, error) {
	var total Amount
	var err error
	for _, amount := range g.Accounts {
		if total, err = total.Add(amount); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// GenesisBuilder assembles an initial distribution, mainly for tests and
// local fixtures.
type GenesisBuilder struct {
	accounts map[AccountOwner]Amount
}

// WithAccount adds or replaces an initial balance.
func (b GenesisBuilder) WithAccount(owner AccountOwner, amount Amount) GenesisBuilder {
	if b.accounts == nil {
		b.accounts = make(map[AccountOwner]Amount)
	}
	b.accounts[owner] = amount
	return b
}

// Build returns the assembled genesis.
func (b GenesisBuilder) Build() Genesis {
	accounts := make(map[AccountOwner]Amount, len(b.accounts))
	for owner, amount := range b.accounts {
		accounts[owner] = amount
	}
	return Genesis{Accounts: accounts}
}
