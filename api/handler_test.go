package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/q3x-finance/miden-poc-ui/adapters/mock"
	"github.com/q3x-finance/miden-poc-ui/domain"
	"github.com/q3x-finance/miden-poc-ui/registry"
	"github.com/q3x-finance/miden-poc-ui/wallet"
)

func newTestRouter(t *testing.T) (*mux.Router, *mock.Ledger, *registry.Store) {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := registry.NewStore(db, zerolog.Nop())

	ledger := mock.NewLedger()
	gateway := wallet.NewGateway(wallet.GatewayConfig{
		Dial: func(ctx context.Context) (wallet.LedgerClient, error) {
			return ledger, nil
		},
		Logger: zerolog.Nop(),
	})
	t.Cleanup(func() { gateway.Close() })

	service := wallet.NewService(wallet.ServiceConfig{
		Gateway:  gateway,
		Registry: store,
		Logger:   zerolog.Nop(),
	})

	router := mux.NewRouter()
	NewAPI(service, store, zerolog.Nop()).Register(router)
	return router, ledger, store
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSendBatchEndpoint(t *testing.T) {
	router, ledger, store := newTestRouter(t)
	require.NoError(t, store.SaveFaucets([]domain.Faucet{
		{ID: "0xFAUCET", Symbol: "TST", Decimals: 0},
	}))
	ledger.SeedAccount("0xAAA", "0xFAUCET", 1000)

	rec := doJSON(t, router, "POST", "/v1/send", map[string]any{
		"sender":   "0xAAA",
		"faucetId": "0xFAUCET",
		"recipients": []map[string]string{
			{"address": "0xBBB", "amount": "10"},
			{"address": "", "amount": "5"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var receipt wallet.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.NotEmpty(t, receipt.TxRef)
	assert.Contains(t, receipt.ExplorerURL, "/tx/")
	assert.Equal(t, 1, ledger.SubmitCalls())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestSendBatchEndpointNoValidRecipients(t *testing.T) {
	router, ledger, store := newTestRouter(t)
	require.NoError(t, store.SaveFaucets([]domain.Faucet{
		{ID: "0xFAUCET", Symbol: "TST", Decimals: 0},
	}))

	rec := doJSON(t, router, "POST", "/v1/send", map[string]any{
		"sender":     "0xAAA",
		"faucetId":   "0xFAUCET",
		"recipients": []map[string]string{{"address": "", "amount": "5"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, ledger.SubmitCalls())
}

func TestSendBatchEndpointUnregisteredFaucet(t *testing.T) {
	router, ledger, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/send", map[string]any{
		"sender":     "0xAAA",
		"faucetId":   "0xNOPE",
		"recipients": []map[string]string{{"address": "0xBBB", "amount": "1"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, ledger.SubmitCalls())
}

func TestMintEndpoint(t *testing.T) {
	router, ledger, _ := newTestRouter(t)
	ledger.SeedAccount("0xAAA", "0xFAUCET", 0)

	rec := doJSON(t, router, "POST", "/v1/mint", map[string]any{
		"account": "0xAAA",
		"faucet":  "0xFAUCET",
		"amount":  100,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var receipt wallet.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.NotEmpty(t, receipt.TxRef)
}

func TestMintEndpointRejectsZeroAmount(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/mint", map[string]any{
		"account": "0xAAA",
		"faucet":  "0xFAUCET",
		"amount":  0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeployAccountEndpoint(t *testing.T) {
	router, _, store := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/accounts", map[string]any{
		"name":     "Main",
		"isPublic": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var account domain.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.NotEmpty(t, account.ID)

	accounts, err := store.Accounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)

	contacts, err := store.Contacts()
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Main", contacts[0].Name)
}

func TestPortfolioEndpointUnknownAccount(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/v1/accounts/0xGONE/portfolio", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactLifecycle(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/v1/contacts", map[string]string{
		"name":    "Alice",
		"address": "0xAAA",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, "GET", "/v1/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var contacts []domain.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contacts))
	require.Len(t, contacts, 1)

	rec = doJSON(t, router, "DELETE", "/v1/contacts/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/v1/contacts", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contacts))
	assert.Empty(t, contacts)
}
