package node

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/Alkamashekh01/linera-protocol/internal/fungible"
)

// Handler exposes the node's chains over HTTP.
type Handler struct {
	node *Node
}

// NewHandler constructs a node handler.
func NewHandler(node *Node) *Handler {
	return &Handler{node: node}
}

type accountRequest struct {
	ChainID string `json:"chain_id"`
	Owner   string `json:"owner"`
}

type transferRequest struct {
	Owner  string         `json:"owner"`
	Amount string         `json:"amount"`
	Target accountRequest `json:"target"`
}

type claimRequest struct {
	Source accountRequest `json:"source"`
	Amount string         `json:"amount"`
	Target accountRequest `json:"target"`
}

func parseAccount(req accountRequest) (fungible.Account, error) {
	if req.ChainID == "" {
		return fungible.Account{}, errors.New("chain_id is required")
	}
	owner, err := fungible.ParseAccountOwner(req.Owner)
	if err != nil {
		return fungible.Account{}, err
	}
	return fungible.Account{ChainID: fungible.ChainID(req.ChainID), Owner: owner}, nil
}

func parsePositiveAmount(s string) (fungible.Amount, error) {
	amount, err := fungible.ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if amount.IsZero() {
		return 0, errors.New("amount must be positive")
	}
	return amount, nil
}

// SubmitTransfer executes a Transfer operation on the chain named in the
// path.
func (h *Handler) SubmitTransfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	owner, err := fungible.ParseAccountOwner(req.Owner)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	target, err := parseAccount(req.Target)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	chainID := fungible.ChainID(c.Params("chain"))
	receipt, err := h.node.SubmitOperation(c.UserContext(), chainID, fungible.Transfer{
		Owner:  owner,
		Amount: amount,
		Target: target,
	})
	if err != nil {
		return mapNodeError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"chain_id":      string(receipt.ChainID),
		"owner_balance": receipt.OwnerBalance.String(),
		"emitted":       receipt.Emitted,
	})
}

// SubmitClaim executes a Claim operation on the chain named in the path.
// The source account may live on a different chain; no local balance
// changes until the resulting Withdraw is processed there.
func (h *Handler) SubmitClaim(c *fiber.Ctx) error {
	var req claimRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	source, err := parseAccount(req.Source)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	target, err := parseAccount(req.Target)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	receipt, err := h.node.SubmitOperation(c.UserContext(), fungible.ChainID(c.Params("chain")), fungible.Claim{
		Source: source,
		Amount: amount,
		Target: target,
	})
	if err != nil {
		return mapNodeError(err)
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"chain_id": string(receipt.ChainID),
		"emitted":  receipt.Emitted,
	})
}

// GetBalance reads one owner's balance on a chain. Absent owners report
// zero.
func (h *Handler) GetBalance(c *fiber.Ctx) error {
	ownerKey, err := url.PathUnescape(c.Params("owner"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "bad owner key encoding")
	}
	owner, err := fungible.ParseAccountOwner(ownerKey)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	chainID := fungible.ChainID(c.Params("chain"))
	balance, err := h.node.Balance(c.UserContext(), chainID, owner)
	if err != nil {
		return mapNodeError(err)
	}
	return c.JSON(fiber.Map{
		"chain_id": string(chainID),
		"owner":    owner.String(),
		"balance":  balance.String(),
	})
}

// ListAccounts returns every non-zero balance on a chain.
func (h *Handler) ListAccounts(c *fiber.Ctx) error {
	chainID := fungible.ChainID(c.Params("chain"))
	balances, err := h.node.Balances(c.UserContext(), chainID)
	if err != nil {
		return mapNodeError(err)
	}
	accounts := make(map[string]string, len(balances))
	for owner, amount := range balances {
		accounts[owner.String()] = amount.String()
	}
	return c.JSON(fiber.Map{
		"chain_id": string(chainID),
		"accounts": accounts,
	})
}

// Deliver pumps pending envelope delivery between hosted chains.
func (h *Handler) Deliver(c *fiber.Ctx) error {
	delivered, err := h.node.DeliverPending(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"delivered": delivered})
}

func mapNodeError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownChain):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, fungible.ErrInsufficientBalance):
		return fiber.NewError(http.StatusBadRequest, "insufficient balance")
	case errors.Is(err, fungible.ErrAmountOverflow):
		return fiber.NewError(http.StatusBadRequest, "amount overflow")
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
