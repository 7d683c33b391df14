// Package mock provides an in-memory simulated ledger for tests and
// demos. It implements wallet.LedgerClient with controllable behavior
// and call counters, the same role the real ledger-client library plays
// against a live node.
package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/q3x-finance/miden-poc-ui/domain"
	"github.com/q3x-finance/miden-poc-ui/wallet"
)

// Ledger simulates the ledger network plus the client session on top of
// it. "Chain" state (vaults, notes) is global; the known set models the
// session's local account cache, which is what makes the Gateway's
// import-and-retry path observable.
type Ledger struct {
	mu     sync.Mutex
	vaults map[domain.AccountID]map[domain.FaucetID]uint64
	known  map[domain.AccountID]bool
	notes  map[domain.AccountID][]domain.NoteHandle
	seq    uint64

	// Failure injection for tests.
	SyncErr    error
	SubmitErr  error
	ConsumeErr error

	// SubmitHook, when set, runs inside SubmitTransaction before any
	// state changes. Tests use it to hold a submission in flight.
	SubmitHook func()

	// LastBatch records the most recently submitted batch.
	LastBatch *domain.BatchTransaction

	syncCalls   int
	submitCalls int
	importCalls int
}

func NewLedger() *Ledger {
	return &Ledger{
		vaults: make(map[domain.AccountID]map[domain.FaucetID]uint64),
		known:  make(map[domain.AccountID]bool),
		notes:  make(map[domain.AccountID][]domain.NoteHandle),
	}
}

// SeedAccount registers an account on the simulated chain and in the
// session cache, with the given balance.
func (l *Ledger) SeedAccount(id domain.AccountID, faucet domain.FaucetID, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureVault(id)
	if amount > 0 {
		l.vaults[id][faucet] += amount
	}
	l.known[id] = true
}

// SeedRemoteAccount registers an account on the simulated chain that the
// session has NOT seen yet, to exercise the import-and-retry path.
func (l *Ledger) SeedRemoteAccount(id domain.AccountID, faucet domain.FaucetID, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureVault(id)
	if amount > 0 {
		l.vaults[id][faucet] += amount
	}
	l.known[id] = false
}

// SyncCalls reports how often SyncState ran.
func (l *Ledger) SyncCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.syncCalls
}

// SubmitCalls reports how often SubmitTransaction ran.
func (l *Ledger) SubmitCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submitCalls
}

// ImportCalls reports how often ImportAccount ran.
func (l *Ledger) ImportCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.importCalls
}

func (l *Ledger) SyncState(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.syncCalls++
	return l.SyncErr
}

func (l *Ledger) ImportAccount(ctx context.Context, id domain.AccountID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.importCalls++
	if _, onChain := l.vaults[id]; !onChain {
		return fmt.Errorf("account %s does not exist on chain", id)
	}
	l.known[id] = true
	return nil
}

func (l *Ledger) AccountAssets(ctx context.Context, id domain.AccountID) ([]domain.Asset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.known[id] {
		return nil, wallet.ErrUnknownAccount
	}
	vault := l.vaults[id]
	assets := make([]domain.Asset, 0, len(vault))
	for faucet, amount := range vault {
		assets = append(assets, domain.Asset{Faucet: faucet, Amount: fmt.Sprintf("%d", amount)})
	}
	return assets, nil
}

func (l *Ledger) SubmitTransaction(ctx context.Context, tx *domain.BatchTransaction) (domain.TxRef, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.submitCalls++
	if l.SubmitHook != nil {
		l.SubmitHook()
	}
	if l.SubmitErr != nil {
		return "", l.SubmitErr
	}
	if !l.known[tx.Sender] {
		return "", fmt.Errorf("unknown sender %s", tx.Sender)
	}
	if len(tx.Notes) == 0 {
		return "", errors.New("empty batch")
	}
	l.LastBatch = tx

	// All-or-nothing: verify the whole batch before touching any vault.
	needed := make(map[domain.FaucetID]uint64)
	for _, n := range tx.Notes {
		needed[n.Faucet] += n.Amount
	}
	for faucet, amount := range needed {
		if l.vaults[tx.Sender][faucet] < amount {
			return "", fmt.Errorf("insufficient balance of %s", faucet)
		}
	}

	ref := l.nextTxRef()
	for _, n := range tx.Notes {
		l.vaults[tx.Sender][n.Faucet] -= n.Amount
		l.notes[n.Recipient] = append(l.notes[n.Recipient], domain.NoteHandle{
			ID:         n.RecipientDigest()[:16] + fmt.Sprintf("%04d", l.seq),
			Faucet:     n.Faucet,
			Amount:     fmt.Sprintf("%d", n.Amount),
			DetectedAt: time.Now(),
		})
	}
	return ref, nil
}

func (l *Ledger) MintTransaction(ctx context.Context, target domain.AccountID, faucet domain.FaucetID, amount uint64, noteType domain.NoteType) (domain.TxRef, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SubmitErr != nil {
		return "", l.SubmitErr
	}
	l.notes[target] = append(l.notes[target], domain.NoteHandle{
		ID:         fmt.Sprintf("mint%08d", l.seq),
		Faucet:     faucet,
		Amount:     fmt.Sprintf("%d", amount),
		DetectedAt: time.Now(),
	})
	return l.nextTxRef(), nil
}

func (l *Ledger) ConsumeTransaction(ctx context.Context, account domain.AccountID, noteIDs []string) (domain.TxRef, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ConsumeErr != nil {
		return "", l.ConsumeErr
	}
	byID := make(map[string]bool, len(noteIDs))
	for _, id := range noteIDs {
		byID[id] = true
	}
	l.ensureVault(account)
	remaining := l.notes[account][:0]
	for _, n := range l.notes[account] {
		if !byID[n.ID] {
			remaining = append(remaining, n)
			continue
		}
		var amount uint64
		fmt.Sscanf(n.Amount, "%d", &amount)
		l.vaults[account][n.Faucet] += amount
	}
	l.notes[account] = remaining
	l.known[account] = true
	return l.nextTxRef(), nil
}

func (l *Ledger) ConsumableNotes(ctx context.Context, account domain.AccountID) ([]domain.NoteHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.NoteHandle(nil), l.notes[account]...), nil
}

func (l *Ledger) NewWallet(ctx context.Context, isPublic bool) (domain.AccountID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := domain.AccountID("0x" + l.nextID("acct"))
	l.ensureVault(id)
	l.known[id] = true
	return id, nil
}

func (l *Ledger) NewFaucet(ctx context.Context, symbol string, decimals int32, maxSupply uint64) (domain.FaucetID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := domain.FaucetID("0x" + l.nextID("faucet"+symbol))
	l.ensureVault(domain.AccountID(id))
	return id, nil
}

func (l *Ledger) Close() error { return nil }

func (l *Ledger) ensureVault(id domain.AccountID) {
	if _, ok := l.vaults[id]; !ok {
		l.vaults[id] = make(map[domain.FaucetID]uint64)
	}
}

// nextTxRef derives a fresh fake transaction reference. Callers must
// hold l.mu.
func (l *Ledger) nextTxRef() domain.TxRef {
	return domain.TxRef("0x" + l.nextDigest("tx"))
}

func (l *Ledger) nextID(label string) string {
	return l.nextDigest(label)[:30]
}

func (l *Ledger) nextDigest(label string) string {
	l.seq++
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], l.seq)
	sum := sha256.Sum256(append([]byte(label), buf[:]...))
	return hex.EncodeToString(sum[:])
}
