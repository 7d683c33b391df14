package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/q3x-finance/miden-poc-ui/adapters/mock"
	"github.com/q3x-finance/miden-poc-ui/api"
	"github.com/q3x-finance/miden-poc-ui/domain"
	"github.com/q3x-finance/miden-poc-ui/registry"
	"github.com/q3x-finance/miden-poc-ui/wallet"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	dataDir := envOr("WALLETD_DATA_DIR", "walletd-data")
	db, err := badger.Open(badger.DefaultOptions(dataDir))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open BadgerDB")
	}
	defer db.Close()

	store := registry.NewStore(db, log)

	// The proving ledger client ships separately and plugs in through
	// wallet.DialFunc (see clients/noderpc.SessionDialer). Until one is
	// configured, the daemon runs against the in-process simulated
	// ledger.
	ledger := mock.NewLedger()
	gateway := wallet.NewGateway(wallet.GatewayConfig{
		Dial: func(ctx context.Context) (wallet.LedgerClient, error) {
			return ledger, nil
		},
		Logger: log,
	})
	defer gateway.Close()

	service := wallet.NewService(wallet.ServiceConfig{
		Gateway:  gateway,
		Registry: store,
		Listener: func(account domain.AccountID, assets []domain.Asset) {
			log.Info().Str("account", account.String()).Int("assets", len(assets)).Msg("portfolio updated")
		},
		ExplorerHost: envOr("WALLETD_EXPLORER_HOST", wallet.DefaultExplorerHost),
		Logger:       log,
	})

	router := mux.NewRouter()
	api.NewAPI(service, store, log).Register(router)

	addr := envOr("WALLETD_ADDR", ":8080")
	log.Info().Str("addr", addr).Msg("Starting walletd")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
