package wallet

import (
	"context"
	"errors"

	"github.com/q3x-finance/miden-poc-ui/domain"
)

// ErrUnknownAccount is returned by LedgerClient.AccountAssets when the
// session's local state has no record of the account. The Gateway reacts
// by importing the account and retrying once.
var ErrUnknownAccount = errors.New("account unknown to session")

// LedgerClient defines the interface to the external ledger-client
// library: note proving, transaction construction and wire-level
// submission all live behind it. The Gateway talks ONLY to this
// interface — never to the node RPC directly.
//
// Implementations are not safe for concurrent use against the same
// session without external serialization; the Gateway provides it.
type LedgerClient interface {
	// SyncState pulls the current chain state into the session. The
	// Gateway calls it before every read or write that depends on
	// current state.
	SyncState(ctx context.Context) error

	// ImportAccount makes an account known to the session by its
	// identifier so its vault can be queried.
	ImportAccount(ctx context.Context, id domain.AccountID) error

	// AccountAssets reads the fungible asset balances of an account's
	// vault. Returns ErrUnknownAccount when the session has never seen
	// the account.
	AccountAssets(ctx context.Context, id domain.AccountID) ([]domain.Asset, error)

	// SubmitTransaction proves and submits one batch transaction. The
	// ledger accepts or rejects the whole batch atomically.
	SubmitTransaction(ctx context.Context, tx *domain.BatchTransaction) (domain.TxRef, error)

	// MintTransaction mints amount base units of the faucet's asset into
	// a note addressed to target.
	MintTransaction(ctx context.Context, target domain.AccountID, faucet domain.FaucetID, amount uint64, noteType domain.NoteType) (domain.TxRef, error)

	// ConsumeTransaction claims the given notes into the account's vault.
	ConsumeTransaction(ctx context.Context, account domain.AccountID, noteIDs []string) (domain.TxRef, error)

	// ConsumableNotes lists the inbound notes the account can currently
	// consume.
	ConsumableNotes(ctx context.Context, account domain.AccountID) ([]domain.NoteHandle, error)

	// NewWallet deploys a fresh basic wallet account.
	NewWallet(ctx context.Context, isPublic bool) (domain.AccountID, error)

	// NewFaucet deploys a fungible faucet account.
	NewFaucet(ctx context.Context, symbol string, decimals int32, maxSupply uint64) (domain.FaucetID, error)

	// Close releases the session.
	Close() error
}
