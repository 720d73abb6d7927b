// Package node hosts a set of ledger chains and drives block execution for
// each of them: operations submitted by callers, and delivery of in-flight
// messages between the chains it hosts. Delivery order, latency, and
// routing to chains hosted elsewhere belong to the surrounding execution
// substrate; the node only promises that each chain executes one block at
// a time and that an envelope is executed at most once.
package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Alkamashekh01/linera-protocol/internal/chainstore"
	"github.com/Alkamashekh01/linera-protocol/internal/fungible"
	"github.com/Alkamashekh01/linera-protocol/internal/notification"
)

// ErrUnknownChain occurs when a request names a chain this node does not
// host.
var ErrUnknownChain = errors.New("chain not hosted on this node")

// Forwarder receives envelopes addressed to chains hosted elsewhere.
type Forwarder interface {
	Forward(ctx context.Context, env fungible.Envelope) error
}

// hostedChain pairs a chain's application with its outbox. The mutex is
// the "one block at a time" rule: every execution on the chain runs under
// it, so the state is never observed mid-block.
type hostedChain struct {
	mu     sync.Mutex
	app    *fungible.Application
	outbox []fungible.Envelope
}

// Node hosts chains and executes their blocks sequentially.
type Node struct {
	chains    map[fungible.ChainID]*hostedChain
	store     chainstore.Store
	guard     DeliveryGuard
	forwarder Forwarder
	notifier  notification.Notifier
	logger    *slog.Logger
}

// Options configures optional node collaborators. Zero values fall back to
// in-process defaults.
type Options struct {
	Guard     DeliveryGuard
	Forwarder Forwarder
	Notifier  notification.Notifier
	Logger    *slog.Logger
}

// New loads the hosted chains from the store. When the genesis chain has
// no recorded balances yet, the initial distribution is applied to it and
// persisted; it is never applied twice.
func New(ctx context.Context, store chainstore.Store, chainIDs []fungible.ChainID, genesis fungible.Genesis, genesisChain fungible.ChainID, opts Options) (*Node, error) {
	if len(chainIDs) == 0 {
		return nil, fmt.Errorf("at least one hosted chain is required")
	}
	if len(genesis.Accounts) > 0 {
		hosted := false
		for _, id := range chainIDs {
			if id == genesisChain {
				hosted = true
				break
			}
		}
		if !hosted {
			return nil, fmt.Errorf("genesis chain %s is not among the hosted chains", genesisChain)
		}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Guard == nil {
		opts.Guard = NewMemoryGuard()
	}

	n := &Node{
		chains:    make(map[fungible.ChainID]*hostedChain, len(chainIDs)),
		store:     store,
		guard:     opts.Guard,
		forwarder: opts.Forwarder,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
	}

	for _, chainID := range chainIDs {
		balances, err := store.Load(ctx, chainID)
		if err != nil {
			return nil, fmt.Errorf("load chain %s: %w", chainID, err)
		}
		if chainID == genesisChain && len(balances) == 0 && len(genesis.Accounts) > 0 {
			balances = genesis.Accounts
			if err := store.Save(ctx, chainID, balances); err != nil {
				return nil, fmt.Errorf("persist genesis for chain %s: %w", chainID, err)
			}
			n.logger.Info("genesis applied", "chain", string(chainID), "accounts", len(balances))
		}
		state := fungible.NewStateFromBalances(chainID, balances)
		n.chains[chainID] = &hostedChain{app: fungible.NewApplication(state)}
	}
	return n, nil
}

// ChainIDs lists the chains hosted by this node.
func (n *Node) ChainIDs() []fungible.ChainID {
	ids := make([]fungible.ChainID, 0, len(n.chains))
	for id := range n.chains {
		ids = append(ids, id)
	}
	return ids
}

// Receipt reports what a submitted operation did on its chain.
// OwnerBalance is the sender's balance as of the executed block, set for
// Transfer operations; a Claim moves nothing locally so it stays zero.
type Receipt struct {
	ChainID      fungible.ChainID
	Emitted      int
	OwnerBalance fungible.Amount
}

// SubmitOperation executes an operation as a block on the named chain. On
// success the new state is persisted and any emitted envelopes join the
// chain's outbox.
func (n *Node) SubmitOperation(ctx context.Context, chainID fungible.ChainID, op fungible.Operation) (Receipt, error) {
	chain, ok := n.chains[chainID]
	if !ok {
		return Receipt{}, fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}

	chain.mu.Lock()
	defer chain.mu.Unlock()

	before := chain.app.State().Balances()
	outbound, err := chain.app.ExecuteOperation(op)
	if err != nil {
		return Receipt{}, err
	}
	if err := n.persist(ctx, chain, chainID, before); err != nil {
		return Receipt{}, err
	}
	chain.outbox = append(chain.outbox, outbound...)
	n.logger.Info("operation executed", "chain", string(chainID), "emitted", len(outbound))

	receipt := Receipt{ChainID: chainID, Emitted: len(outbound)}
	if transfer, ok := op.(fungible.Transfer); ok {
		// Read under the same lock so the reported balance is the one this
		// block produced, not a later block's.
		receipt.OwnerBalance = chain.app.State().Balance(transfer.Owner)
	}
	return receipt, nil
}

// Balance reads an owner's balance on a hosted chain; absent owners hold
// zero. Never mutates state.
func (n *Node) Balance(_ context.Context, chainID fungible.ChainID, owner fungible.AccountOwner) (fungible.Amount, error) {
	chain, ok := n.chains[chainID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}
	chain.mu.Lock()
	defer chain.mu.Unlock()
	return chain.app.State().Balance(owner), nil
}

// Balances snapshots every balance on a hosted chain.
func (n *Node) Balances(_ context.Context, chainID fungible.ChainID) (map[fungible.AccountOwner]fungible.Amount, error) {
	chain, ok := n.chains[chainID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}
	chain.mu.Lock()
	defer chain.mu.Unlock()
	return chain.app.State().Balances(), nil
}

// DeliverPending drains the hosted chains' outboxes, executing each
// envelope addressed to a hosted chain and forwarding the rest. Messages
// produced by a delivery (a Withdraw turning into a Credit) are delivered
// in the same call. Returns the number of envelopes executed.
//
// An infrastructure error (guard lookup, store write) aborts the pump but
// never consumes value: the failing envelope and the rest of the batch are
// returned to their outboxes, so a later pump retries them.
func (n *Node) DeliverPending(ctx context.Context) (int, error) {
	delivered := 0
	for {
		pending := n.collectOutboxes(ctx)
		if len(pending) == 0 {
			return delivered, nil
		}
		for i, env := range pending {
			ok, err := n.deliver(ctx, env)
			if err != nil {
				n.requeue(pending[i:])
				return delivered, err
			}
			if ok {
				delivered++
			}
		}
	}
}

// requeue puts undelivered envelopes back in flight on their destination
// chains' outboxes.
func (n *Node) requeue(envs []fungible.Envelope) {
	for _, env := range envs {
		chain := n.chains[env.Destination]
		chain.mu.Lock()
		chain.outbox = append(chain.outbox, env)
		chain.mu.Unlock()
	}
}

// collectOutboxes removes and returns every queued envelope that has a
// local destination; foreign envelopes are handed to the forwarder and
// kept queued when no forwarder is configured.
func (n *Node) collectOutboxes(ctx context.Context) []fungible.Envelope {
	var local []fungible.Envelope
	for chainID, chain := range n.chains {
		chain.mu.Lock()
		var held []fungible.Envelope
		for _, env := range chain.outbox {
			if _, hosted := n.chains[env.Destination]; hosted {
				local = append(local, env)
				continue
			}
			if n.forwarder != nil {
				if err := n.forwarder.Forward(ctx, env); err != nil {
					n.logger.Warn("forward failed", "chain", string(chainID), "destination", string(env.Destination), "error", err)
					held = append(held, env)
				}
				continue
			}
			n.logger.Warn("no route to chain, holding envelope", "destination", string(env.Destination), "message_id", env.ID)
			held = append(held, env)
		}
		chain.outbox = held
		chain.mu.Unlock()
	}
	return local
}

// deliver executes one envelope on its destination chain. The guard
// enforces at-most-once execution per envelope id even if the substrate
// redelivers. A failed execution consumes the envelope: Withdraw
// rejections are safe (nothing was debited on emission), a failed Credit
// loses the in-transit value and is logged as such.
func (n *Node) deliver(ctx context.Context, env fungible.Envelope) (bool, error) {
	first, err := n.guard.FirstDelivery(ctx, env.ID)
	if err != nil {
		return false, fmt.Errorf("delivery guard: %w", err)
	}
	if !first {
		n.logger.Info("duplicate delivery skipped", "message_id", env.ID, "chain", string(env.Destination))
		return false, nil
	}

	chain := n.chains[env.Destination]
	chain.mu.Lock()
	defer chain.mu.Unlock()

	before := chain.app.State().Balances()
	outbound, execErr := chain.app.ExecuteMessage(env.Message)
	if execErr != nil {
		switch msg := env.Message.(type) {
		case fungible.Withdraw:
			n.logger.Warn("withdraw rejected", "chain", string(env.Destination), "owner", msg.Owner.String(), "error", execErr)
		case fungible.Credit:
			n.logger.Error("credit failed, in-transit value lost", "chain", string(env.Destination), "owner", msg.Owner.String(), "amount", msg.Amount.String(), "error", execErr)
		default:
			n.logger.Error("message execution failed", "chain", string(env.Destination), "error", execErr)
		}
		return true, nil
	}
	if err := n.persist(ctx, chain, env.Destination, before); err != nil {
		// The execution was rolled back, so the reservation must be undone
		// too or a redelivery of this envelope would be refused forever.
		if relErr := n.guard.Release(ctx, env.ID); relErr != nil {
			n.logger.Error("release delivery reservation failed", "message_id", env.ID, "error", relErr)
		}
		return false, err
	}
	chain.outbox = append(chain.outbox, outbound...)

	if credit, ok := env.Message.(fungible.Credit); ok && n.notifier != nil {
		_ = n.notifier.Notify(ctx, notification.Event{
			Kind:    notification.KindCreditApplied,
			ChainID: string(env.Destination),
			Owner:   credit.Owner.String(),
			Amount:  credit.Amount.String(),
		})
	}
	return true, nil
}

// persist saves the chain's state, rolling the in-memory state back to the
// pre-block snapshot when the store rejects the write.
func (n *Node) persist(ctx context.Context, chain *hostedChain, chainID fungible.ChainID, before map[fungible.AccountOwner]fungible.Amount) error {
	if err := n.store.Save(ctx, chainID, chain.app.State().Balances()); err != nil {
		chain.app = fungible.NewApplication(fungible.NewStateFromBalances(chainID, before))
		return fmt.Errorf("persist chain %s: %w", chainID, err)
	}
	return nil
}
