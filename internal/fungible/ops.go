package fungible

import "github.com/google/uuid"

// Operation is an end-user action submitted as a block action on one chain.
type Operation interface {
	isOperation()
}

// Transfer moves value out of a locally held account, either to another
// local account or to an account on a remote chain.
type Transfer struct {
	Owner  AccountOwner
	Amount Amount
	Target Account
}

// Claim asks a (possibly remote) source chain to withdraw from one of its
// accounts and forward the value to the target. The target chain may take
// time, or decline, to process the resulting message.
type Claim struct {
	Source Account
	Amount Amount
	Target Account
}

func (Transfer) isOperation() {}
func (Claim) isOperation()    {}

// Message is an asynchronous chain-addressed instruction. It is immutable
// once emitted and consumed exactly once by the destination chain.
type Message interface {
	isMessage()
}

// Credit increases the balance of an owner on the receiving chain.
type Credit struct {
	Owner  AccountOwner
	Amount Amount
}

// Withdraw debits an owner on the receiving chain and starts a transfer to
// the target account.
type Withdraw struct {
	Owner  AccountOwner
	Amount Amount
	Target Account
}

func (Credit) isMessage()   {}
func (Withdraw) isMessage() {}

// Envelope is a message in flight, addressed to a chain. The ID lets the
// delivery layer refuse a second execution of the same envelope.
type Envelope struct {
	ID          string
	Destination ChainID
	Message     Message
}

// NewEnvelope wraps a message for delivery to a chain.
func NewEnvelope(destination ChainID, msg Message) Envelope {
	return Envelope{ID: uuid.NewString(), Destination: destination, Message: msg}
}

// ApplicationCall is an intent invoked by a co-located application on
// behalf of an owner rather than submitted by an end user.
type ApplicationCall interface {
	isApplicationCall()
}

// BalanceCall reads the current balance of an owner; absent owners read as
// zero and nothing is mutated.
type BalanceCall struct {
	Owner AccountOwner
}

// TransferCall moves value from an owner to a destination, which may be a
// concrete account or a new session handed back to the caller.
type TransferCall struct {
	Owner       AccountOwner
	Amount      Amount
	Destination Destination
}

// ClaimCall mirrors the Claim operation for application callers.
type ClaimCall struct {
	Source Account
	Amount Amount
	Target Account
}

func (BalanceCall) isApplicationCall()  {}
func (TransferCall) isApplicationCall() {}
func (ClaimCall) isApplicationCall()    {}

// Destination is where transferred value ends up: a concrete account, or a
// freshly spawned session owned by the calling application.
type Destination struct {
	account    Account
	newSession bool
}

// AccountDestination targets a concrete account.
func AccountDestination(account Account) Destination {
	return Destination{account: account}
}

// NewSessionDestination asks for the transferred value to fund a session
// instead of crediting an account.
func NewSessionDestination() Destination {
	return Destination{newSession: true}
}

// IsNewSession reports whether the destination spawns a session.
func (d Destination) IsNewSession() bool { return d.newSession }

// Account returns the target account when the destination is one.
func (d Destination) Account() (Account, bool) {
	if d.newSession {
		return Account{}, false
	}
	return d.account, true
}
