package routes

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Alkamashekh01/linera-protocol/internal/config"
	"github.com/Alkamashekh01/linera-protocol/internal/logging"
)

func setupRoutesApp(t *testing.T) *fiber.App {
	t.Helper()

	genesisPath := filepath.Join(t.TempDir(), "genesis.json")
	genesis := `{"accounts": {"User:a1ce": "100."}}`
	if err := os.WriteFile(genesisPath, []byte(genesis), 0o600); err != nil {
		t.Fatalf("write genesis: %v", err)
	}

	cfg := config.Config{
		AppName:        "FungibleLedger",
		Env:            "development",
		Port:           "0",
		LogLevel:       "error",
		ShutdownPeriod: time.Second,
		IdempotencyTTL: time.Minute,
		DeliveryTTL:    time.Minute,
		ChainIDs:       []string{"aaaa", "bbbb"},
		GenesisFile:    genesisPath,
		GenesisChainID: "aaaa",
	}

	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

func TestSetupWiresLedgerEndpoints(t *testing.T) {
	app := setupRoutesApp(t)

	body := `{"owner": "User:a1ce", "amount": "30", "target": {"chain_id": "bbbb", "owner": "User:b0b0"}}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/chains/aaaa/transfers", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(fiber.MethodPost, "/api/v1/deliveries", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("pump deliveries: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delivery pump failed with status %d", resp.StatusCode)
	}

	balancePath := "/api/v1/chains/bbbb/accounts/" + url.PathEscape("User:b0b0") + "/balance"
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, balancePath, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if decoded["balance"] != "30" {
		t.Fatalf("unexpected balance payload: %v", decoded)
	}
}

func TestSetupAppliesGenesisFromFile(t *testing.T) {
	app := setupRoutesApp(t)

	balancePath := "/api/v1/chains/aaaa/accounts/" + url.PathEscape("User:a1ce") + "/balance"
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, balancePath, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	payload, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(payload), `"balance":"100"`) {
		t.Fatalf("genesis balance missing: %s", payload)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := setupRoutesApp(t)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSetupRequiresBackendsOutsideDev(t *testing.T) {
	cfg := config.Config{Env: "production", ChainIDs: []string{"aaaa"}}
	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err == nil {
		t.Fatalf("production setup without backends must fail")
	}
}
