package fungible

import "fmt"

// Application executes operations, messages, and cross-application calls
// against the state of a single chain. Every method is all-or-nothing: on
// error the state is unchanged and no envelopes are emitted. Outbound
// envelopes are only ever produced after the corresponding local debit has
// been applied, so an undelivered message delays value but never creates
// or destroys it.
type Application struct {
	state *State
}

// NewApplication wraps a chain state.
func NewApplication(state *State) *Application {
	return &Application{state: state}
}

// State exposes the underlying chain state for reads and persistence.
func (a *Application) State() *State { return a.state }

// ExecuteOperation runs a user-submitted block action.
func (a *Application) ExecuteOperation(op Operation) ([]Envelope, error) {
	switch op := op.(type) {
	case Transfer:
		return a.moveFunds(op.Owner, op.Amount, op.Target)
	case Claim:
		// No local mutation: the source chain performs the debit when the
		// Withdraw message reaches it.
		withdraw := Withdraw{Owner: op.Source.Owner, Amount: op.Amount, Target: op.Target}
		return []Envelope{NewEnvelope(op.Source.ChainID, withdraw)}, nil
	default:
		return nil, fmt.Errorf("unsupported operation %T", op)
	}
}

// ExecuteMessage runs a delivered cross-chain message.
func (a *Application) ExecuteMessage(msg Message) ([]Envelope, error) {
	switch msg := msg.(type) {
	case Credit:
		if err := a.state.credit(msg.Owner, msg.Amount); err != nil {
			return nil, err
		}
		return nil, nil
	case Withdraw:
		return a.moveFunds(msg.Owner, msg.Amount, msg.Target)
	default:
		return nil, fmt.Errorf("unsupported message %T", msg)
	}
}

// CallResult carries the outcome of an ApplicationCall. Balance is set for
// BalanceCall; Session is set when a TransferCall's destination spawned
// one.
type CallResult struct {
	Balance  Amount
	Session  *Session
	Outbound []Envelope
}

// HandleCall runs an intent invoked by a co-located application.
func (a *Application) HandleCall(call ApplicationCall) (CallResult, error) {
	switch call := call.(type) {
	case BalanceCall:
		return CallResult{Balance: a.state.Balance(call.Owner)}, nil
	case TransferCall:
		if call.Destination.IsNewSession() {
			session, err := a.openSession(call.Owner, call.Amount)
			if err != nil {
				return CallResult{}, err
			}
			return CallResult{Session: session}, nil
		}
		target, _ := call.Destination.Account()
		outbound, err := a.moveFunds(call.Owner, call.Amount, target)
		if err != nil {
			return CallResult{}, err
		}
		return CallResult{Outbound: outbound}, nil
	case ClaimCall:
		withdraw := Withdraw{Owner: call.Source.Owner, Amount: call.Amount, Target: call.Target}
		return CallResult{Outbound: []Envelope{NewEnvelope(call.Source.ChainID, withdraw)}}, nil
	default:
		return CallResult{}, fmt.Errorf("unsupported application call %T", call)
	}
}

// moveFunds debits the owner and routes the value to the target: a direct
// credit when the target lives on this chain, an outbound Credit envelope
// otherwise.
func (a *Application) moveFunds(owner AccountOwner, amount Amount, target Account) ([]Envelope, error) {
	if target.ChainID == a.state.chainID {
		if owner == target.Owner {
			if a.state.Balance(owner) < amount {
				return nil, ErrInsufficientBalance
			}
			return nil, nil
		}
		// Check the credit cannot overflow before touching the debit side,
		// so a failure leaves the state untouched.
		if _, err := a.state.Balance(target.Owner).Add(amount); err != nil {
			return nil, err
		}
		if err := a.state.debit(owner, amount); err != nil {
			return nil, err
		}
		return nil, a.state.credit(target.Owner, amount)
	}
	if err := a.state.debit(owner, amount); err != nil {
		return nil, err
	}
	credit := Credit{Owner: target.Owner, Amount: amount}
	return []Envelope{NewEnvelope(target.ChainID, credit)}, nil
}
