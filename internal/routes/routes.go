package routes

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Alkamashekh01/linera-protocol/internal/chainstore"
	"github.com/Alkamashekh01/linera-protocol/internal/config"
	"github.com/Alkamashekh01/linera-protocol/internal/fungible"
	"github.com/Alkamashekh01/linera-protocol/internal/middleware"
	"github.com/Alkamashekh01/linera-protocol/internal/node"
	"github.com/Alkamashekh01/linera-protocol/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes. DB and
// Cache may be nil in development; in-memory fallbacks take over.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup builds the node from configuration and wires middlewares and
// routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var store chainstore.Store
	if d.DB != nil {
		pg := chainstore.NewPostgres(d.DB)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			return fmt.Errorf("ensure chainstore schema: %w", err)
		}
		store = pg
	} else {
		store = chainstore.NewInMemory()
	}

	var guard node.DeliveryGuard
	if d.Cache != nil {
		guard = node.NewRedisGuard(d.Cache, d.Cfg.DeliveryTTL)
	}

	genesis, err := loadGenesis(d.Cfg.GenesisFile)
	if err != nil {
		return err
	}

	chainIDs := make([]fungible.ChainID, 0, len(d.Cfg.ChainIDs))
	for _, id := range d.Cfg.ChainIDs {
		chainIDs = append(chainIDs, fungible.ChainID(id))
	}

	ledgerNode, err := node.New(context.Background(), store, chainIDs, genesis, fungible.ChainID(d.Cfg.GenesisChainID), node.Options{
		Guard:    guard,
		Notifier: notification.NewLoggerNotifier(d.Logger),
		Logger:   d.Logger,
	})
	if err != nil {
		return fmt.Errorf("build node: %w", err)
	}

	handler := node.NewHandler(ledgerNode)

	api := app.Group("/api/v1")
	RegisterChainRoutes(api, handler, d)
	return nil
}

// loadGenesis reads the initial distribution file; an unset path yields an
// empty distribution (the store is expected to be populated already).
func loadGenesis(path string) (fungible.Genesis, error) {
	if path == "" {
		return fungible.Genesis{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fungible.Genesis{}, fmt.Errorf("read genesis file: %w", err)
	}
	return fungible.ParseGenesis(data)
}
