package fungible

import (
	"errors"
	"testing"
)

func openTestSession(t *testing.T, app *Application, owner AccountOwner, amount Amount) *Session {
	t.Helper()
	res, err := app.HandleCall(TransferCall{Owner: owner, Amount: amount, Destination: NewSessionDestination()})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if res.Session == nil {
		t.Fatalf("expected a session")
	}
	return res.Session
}

func TestSessionFundingDebitsOwner(t *testing.T) {
	app := newTestApp(t, chainA, map[AccountOwner]Amount{alice: MustAmount(10)})
	session := openTestSession(t, app, alice, MustAmount(6))

	if app.State().Balance(alice) != MustAmount(4) {
		t.Fatalf("session funding must debit the owner immediately")
	}
	if session.Balance() != MustAmount(6) {
		t.Fatalf("unexpected session balance %v", session.Balance())
	}
}

func TestSessionSpendBound(t *testing.T) {
	app := newTestApp(t, chainA, map[AccountOwner]Amount{alice: MustAmount(10)})
	session := openTestSession(t, app, alice, MustAmount(5))

	local := AccountDestination(Account{ChainID: chainA, Owner: bob})
	if _, err := session.Transfer(MustAmount(3), local); err != nil {
		t.Fatalf("first spend: %v", err)
	}
	if _, err := session.Transfer(MustAmount(3), local); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("spend past the allowance should fail, got %v", err)
	}
	if _, err := session.Transfer(MustAmount(2), local); err != nil {
		t.Fatalf("spending the exact remainder: %v", err)
	}
	if app.State().Balance(bob) != MustAmount(5) {
		t.Fatalf("session outflow mismatch: %v", app.State().Balance(bob))
	}
	// Fully spent sessions are closed.
	if _, err := session.Transfer(MustAmount(1), local); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected closed session, got %v", err)
	}
}

func TestSessionRemoteTransfer(t *testing.T) {
	app := newTestApp(t, chainA, map[AccountOwner]Amount{alice: MustAmount(10)})
	session := openTestSession(t, app, alice, MustAmount(4))

	outbound, err := session.Transfer(MustAmount(4), AccountDestination(Account{ChainID: chainB, Owner: bob}))
	if err != nil {
		t.Fatalf("remote session transfer: %v", err)
	}
	if len(outbound) != 1 || outbound[0].Destination != chainB {
		t.Fatalf("expected a credit envelope for chain B")
	}
}

func TestSessionCannotFundSession(t *testing.T) {
	app := newTestApp(t, chainA, map[AccountOwner]Amount{alice: MustAmount(10)})
	session := openTestSession(t, app, alice, MustAmount(4))

	if _, err := session.Transfer(MustAmount(1), NewSessionDestination()); !errors.Is(err, ErrSessionDestination) {
		t.Fatalf("expected session destination error, got %v", err)
	}
	if session.Balance() != MustAmount(4) {
		t.Fatalf("failed transfer must not consume allowance")
	}
}

func TestSessionCloseReturnsResidue(t *testing.T) {
	app := newTestApp(t, chainA, map[AccountOwner]Amount{alice: MustAmount(10)})
	session := openTestSession(t, app, alice, MustAmount(6))

	if _, err := session.Transfer(MustAmount(2), AccountDestination(Account{ChainID: chainA, Owner: bob})); err != nil {
		t.Fatalf("spend: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if app.State().Balance(alice) != MustAmount(8) {
		t.Fatalf("residue not returned: %v", app.State().Balance(alice))
	}
	// Conservation: nothing minted or lost across the session lifecycle.
	total, err := app.State().TotalBalance()
	if err != nil || total != MustAmount(10) {
		t.Fatalf("supply changed: %v, %v", total, err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("double close should be a no-op: %v", err)
	}
	if app.State().Balance(alice) != MustAmount(8) {
		t.Fatalf("double close must not credit twice")
	}
}

func TestSessionInsufficientFunding(t *testing.T) {
	app := newTestApp(t, chainA, map[AccountOwner]Amount{alice: MustAmount(3)})
	_, err := app.HandleCall(TransferCall{Owner: alice, Amount: MustAmount(5), Destination: NewSessionDestination()})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}
