package fungible

import "errors"

var (
	// ErrSessionClosed occurs when a closed session is used again.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionDestination occurs when a session transfer targets a new
	// session; sessions fund accounts and messages, not further sessions.
	ErrSessionDestination = errors.New("session cannot fund another session")
)

// Session is a transient, single-use spend allowance carved out of an
// account by a NewSession transfer. It belongs to the call stack that
// created it and is never persisted: the funding debit has already
// committed, so the session's remaining balance is the only record of the
// value until it is spent or returned.
type Session struct {
	app       *Application
	funder    AccountOwner
	remaining Amount
	closed    bool
}

func (a *Application) openSession(owner AccountOwner, amount Amount) (*Session, error) {
	if err := a.state.debit(owner, amount); err != nil {
		return nil, err
	}
	return &Session{app: a, funder: owner, remaining: amount}, nil
}

// Balance returns the amount still spendable through the session.
func (s *Session) Balance() Amount { return s.remaining }

// Transfer spends part of the session's allowance towards an account,
// locally or on a remote chain. The sum of all transfers can never exceed
// the amount the session was funded with. A session closes itself once its
// balance reaches zero.
func (s *Session) Transfer(amount Amount, destination Destination) ([]Envelope, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if destination.IsNewSession() {
		return nil, ErrSessionDestination
	}
	if s.remaining < amount {
		return nil, ErrInsufficientBalance
	}
	target, _ := destination.Account()

	var outbound []Envelope
	if target.ChainID == s.app.state.chainID {
		if err := s.app.state.credit(target.Owner, amount); err != nil {
			return nil, err
		}
	} else {
		outbound = []Envelope{NewEnvelope(target.ChainID, Credit{Owner: target.Owner, Amount: amount})}
	}

	s.remaining -= amount
	if s.remaining.IsZero() {
		s.closed = true
	}
	return outbound, nil
}

// Close destroys the session, returning any residual balance to the
// funding owner so that an abandoned session never destroys value. Closing
// an already-closed session is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.remaining.IsZero() {
		return nil
	}
	residue := s.remaining
	s.remaining = 0
	return s.app.state.credit(s.funder, residue)
}
