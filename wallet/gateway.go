package wallet

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/q3x-finance/miden-poc-ui/domain"
)

// DialFunc produces a connected ledger session. The Gateway calls it at
// most once per process lifetime on the happy path; a failed dial leaves
// the Gateway sessionless so the next operation retries.
type DialFunc func(ctx context.Context) (LedgerClient, error)

// GatewayConfig holds Gateway construction parameters.
type GatewayConfig struct {
	Dial   DialFunc
	Logger zerolog.Logger
}

// Gateway is the thin adapter between the wallet and the ledger-client
// library. It owns the one cached session: creation is lazy, concurrent
// first callers share a single in-flight initialization, and every
// chain-dependent operation re-syncs the session before running.
type Gateway struct {
	dial DialFunc
	log  zerolog.Logger

	mu      sync.Mutex // serializes all use of the session
	session LedgerClient
	flight  singleflight.Group
}

func NewGateway(cfg GatewayConfig) *Gateway {
	return &Gateway{
		dial: cfg.Dial,
		log:  cfg.Logger,
	}
}

// acquire returns the cached session, dialing it on first use. Callers
// that race the first dial wait on the same in-flight attempt instead of
// opening a second, conflicting session.
func (g *Gateway) acquire(ctx context.Context) (LedgerClient, error) {
	g.mu.Lock()
	s := g.session
	g.mu.Unlock()
	if s != nil {
		return s, nil
	}

	v, err, _ := g.flight.Do("session", func() (any, error) {
		// A caller that lost the fast-path check may land here after the
		// winning flight finished; reuse its session instead of dialing
		// a second one.
		g.mu.Lock()
		if s := g.session; s != nil {
			g.mu.Unlock()
			return s, nil
		}
		g.mu.Unlock()

		s, err := g.dial(ctx)
		if err != nil {
			return nil, err
		}
		g.mu.Lock()
		g.session = s
		g.mu.Unlock()
		g.log.Info().Msg("ledger session established")
		return s, nil
	})
	if err != nil {
		return nil, wrapError(KindNetworkUnavailable, "ledger session unavailable", err)
	}
	return v.(LedgerClient), nil
}

// Close releases the cached session, if any.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return nil
	}
	err := g.session.Close()
	g.session = nil
	return err
}

// withSession runs fn against the synced session, holding the session
// lock for the whole operation.
func (g *Gateway) withSession(ctx context.Context, fn func(LedgerClient) error) error {
	s, err := g.acquire(ctx)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := s.SyncState(ctx); err != nil {
		return wrapError(KindNetworkUnavailable, "state sync failed", err)
	}
	return fn(s)
}

// GetAssets reads the current asset balances of an account. Accounts the
// session has never seen are imported by identifier and retried exactly
// once; if the ledger still does not know them the call fails with
// KindAccountNotFound.
func (g *Gateway) GetAssets(ctx context.Context, id domain.AccountID) ([]domain.Asset, error) {
	var assets []domain.Asset
	err := g.withSession(ctx, func(s LedgerClient) error {
		var err error
		assets, err = s.AccountAssets(ctx, id)
		if !errors.Is(err, ErrUnknownAccount) {
			return err
		}

		g.log.Debug().Str("account", id.String()).Msg("account unknown, importing")
		if err := s.ImportAccount(ctx, id); err != nil {
			return wrapError(KindAccountNotFound, "import of "+id.String()+" failed", err)
		}
		if err := s.SyncState(ctx); err != nil {
			return wrapError(KindNetworkUnavailable, "state sync failed", err)
		}
		assets, err = s.AccountAssets(ctx, id)
		if errors.Is(err, ErrUnknownAccount) {
			return wrapError(KindAccountNotFound, "account not found after import: "+id.String(), err)
		}
		return err
	})
	if err != nil {
		return nil, asNetworkError(err, "asset query failed")
	}
	return assets, nil
}

// Submit proves and submits one batch transaction, returning the
// transaction reference on success. Submissions are never retried here:
// a retry could double-spend the batch.
func (g *Gateway) Submit(ctx context.Context, tx *domain.BatchTransaction) (domain.TxRef, error) {
	var ref domain.TxRef
	err := g.withSession(ctx, func(s LedgerClient) error {
		var err error
		ref, err = s.SubmitTransaction(ctx, tx)
		return err
	})
	if err != nil {
		return "", asKindError(err, KindSubmissionFailed, "batch submission failed")
	}
	g.log.Info().
		Str("sender", tx.Sender.String()).
		Int("notes", len(tx.Notes)).
		Str("tx", ref.String()).
		Msg("batch transaction submitted")
	return ref, nil
}

// Mint mints amount base units from the faucet into a note addressed to
// target.
func (g *Gateway) Mint(ctx context.Context, target domain.AccountID, faucet domain.FaucetID, amount uint64, noteType domain.NoteType) (domain.TxRef, error) {
	var ref domain.TxRef
	err := g.withSession(ctx, func(s LedgerClient) error {
		var err error
		ref, err = s.MintTransaction(ctx, target, faucet, amount, noteType)
		return err
	})
	if err != nil {
		return "", asKindError(err, KindSubmissionFailed, "mint failed")
	}
	return ref, nil
}

// DeployAccount creates a new basic wallet on the ledger.
func (g *Gateway) DeployAccount(ctx context.Context, isPublic bool) (domain.AccountID, error) {
	var id domain.AccountID
	err := g.withSession(ctx, func(s LedgerClient) error {
		var err error
		id, err = s.NewWallet(ctx, isPublic)
		return err
	})
	if err != nil {
		return "", asNetworkError(err, "account deployment failed")
	}
	g.log.Info().Str("account", id.String()).Bool("public", isPublic).Msg("account deployed")
	return id, nil
}

// DeployFaucet creates a new fungible faucet on the ledger.
func (g *Gateway) DeployFaucet(ctx context.Context, symbol string, decimals int32, maxSupply uint64) (domain.FaucetID, error) {
	var id domain.FaucetID
	err := g.withSession(ctx, func(s LedgerClient) error {
		var err error
		id, err = s.NewFaucet(ctx, symbol, decimals, maxSupply)
		return err
	})
	if err != nil {
		return "", asNetworkError(err, "faucet deployment failed")
	}
	g.log.Info().Str("faucet", id.String()).Str("symbol", symbol).Msg("faucet deployed")
	return id, nil
}

// ListConsumableNotes lists the inbound notes an account can claim.
func (g *Gateway) ListConsumableNotes(ctx context.Context, account domain.AccountID) ([]domain.NoteHandle, error) {
	var notes []domain.NoteHandle
	err := g.withSession(ctx, func(s LedgerClient) error {
		var err error
		notes, err = s.ConsumableNotes(ctx, account)
		return err
	})
	if err != nil {
		return nil, asNetworkError(err, "note listing failed")
	}
	return notes, nil
}

// Consume claims the given notes into the account's vault.
func (g *Gateway) Consume(ctx context.Context, account domain.AccountID, noteIDs []string) (domain.TxRef, error) {
	var ref domain.TxRef
	err := g.withSession(ctx, func(s LedgerClient) error {
		var err error
		ref, err = s.ConsumeTransaction(ctx, account, noteIDs)
		return err
	})
	if err != nil {
		return "", asKindError(err, KindSubmissionFailed, "note consumption failed")
	}
	return ref, nil
}

// asKindError wraps err under kind unless it already carries a wallet
// Kind.
func asKindError(err error, kind Kind, msg string) error {
	if KindOf(err) != "" {
		return err
	}
	return wrapError(kind, msg, err)
}

func asNetworkError(err error, msg string) error {
	return asKindError(err, KindNetworkUnavailable, msg)
}
