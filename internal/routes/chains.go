package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alkamashekh01/linera-protocol/internal/middleware"
	"github.com/Alkamashekh01/linera-protocol/internal/node"
)

// RegisterChainRoutes wires the per-chain ledger endpoints. Submission
// endpoints are guarded by idempotency and rate limiting when Redis is
// available; the balance reads stay unguarded (they never mutate).
func RegisterChainRoutes(r fiber.Router, h *node.Handler, d Deps) {
	r.Get("/chains/:chain/accounts", h.ListAccounts)
	r.Get("/chains/:chain/accounts/:owner/balance", h.GetBalance)

	submit := r.Group("")
	if d.Cache != nil {
		submit.Use(middleware.SubmitRateLimit(d.Cache, 30))
		submit.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}
	submit.Post("/chains/:chain/transfers", h.SubmitTransfer)
	submit.Post("/chains/:chain/claims", h.SubmitClaim)
	submit.Post("/deliveries", h.Deliver)
}
