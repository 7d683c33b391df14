package wallet

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/q3x-finance/miden-poc-ui/domain"
)

// Registry is the slice of the local registry the wallet writes to when
// it deploys things. Reads stay with the presentation layer.
type Registry interface {
	Accounts() ([]domain.Account, error)
	AppendAccount(domain.Account) error
	AppendFaucet(domain.Faucet) error
	AppendContact(domain.Contact) error
}

// Receipt is the success payload of a mutating ledger operation.
type Receipt struct {
	TxRef       domain.TxRef `json:"txRef"`
	ExplorerURL string       `json:"explorerUrl"`
}

// ServiceConfig holds Service construction parameters.
type ServiceConfig struct {
	Gateway      *Gateway
	Registry     Registry
	Listener     PortfolioListener
	ExplorerHost string
	Logger       zerolog.Logger
}

// Service is the operation surface consumed by the presentation layer:
// batch sends, portfolio refreshes, minting, deployments and note
// consumption. Every method returns either a success payload or a
// structured *Error; nothing is swallowed.
type Service struct {
	gateway      *Gateway
	orchestrator *Orchestrator
	reconciler   *Reconciler
	registry     Registry
	explorerHost string
	log          zerolog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	rec := NewReconciler(cfg.Gateway, cfg.Listener, cfg.Logger)
	return &Service{
		gateway:      cfg.Gateway,
		orchestrator: NewOrchestrator(cfg.Gateway, rec, cfg.Logger),
		reconciler:   rec,
		registry:     cfg.Registry,
		explorerHost: cfg.ExplorerHost,
		log:          cfg.Logger,
	}
}

// SendBatch submits one multi-recipient transfer.
func (s *Service) SendBatch(ctx context.Context, in BatchInput) (Receipt, error) {
	ref, err := s.orchestrator.SendBatch(ctx, in)
	if err != nil {
		return Receipt{}, err
	}
	return s.receipt(ref), nil
}

// Refresh re-reads and republishes an account's portfolio.
func (s *Service) Refresh(ctx context.Context, account domain.AccountID) ([]domain.Asset, error) {
	return s.reconciler.Refresh(ctx, account)
}

// MintToken mints amount base units of the faucet's asset to the target
// account, then refreshes the target's portfolio once.
func (s *Service) MintToken(ctx context.Context, account domain.AccountID, faucet domain.FaucetID, amount uint64) (Receipt, error) {
	ref, err := s.gateway.Mint(ctx, account, faucet, amount, domain.NoteTypePublic)
	if err != nil {
		return Receipt{}, err
	}
	if _, err := s.reconciler.Refresh(ctx, account); err != nil {
		s.log.Warn().Err(err).Str("account", account.String()).Msg("post-mint portfolio refresh failed")
	}
	return s.receipt(ref), nil
}

// DeployAccount creates a wallet account on the ledger and records it in
// the registry, adding a matching address-book contact. A blank name
// defaults to "Account N".
func (s *Service) DeployAccount(ctx context.Context, name string, isPublic bool) (domain.Account, error) {
	id, err := s.gateway.DeployAccount(ctx, isPublic)
	if err != nil {
		return domain.Account{}, err
	}
	if name == "" {
		existing, err := s.registry.Accounts()
		if err != nil {
			return domain.Account{}, err
		}
		name = fmt.Sprintf("Account %d", len(existing)+1)
	}
	account := domain.Account{ID: id, Name: name, IsPublic: isPublic}
	if err := s.registry.AppendAccount(account); err != nil {
		return domain.Account{}, err
	}
	if err := s.registry.AppendContact(domain.Contact{Name: name, Address: id.String()}); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// DeployFaucet creates a fungible faucet on the ledger and records its
// display metadata in the registry.
func (s *Service) DeployFaucet(ctx context.Context, symbol string, decimals int32, maxSupply uint64) (domain.Faucet, error) {
	id, err := s.gateway.DeployFaucet(ctx, symbol, decimals, maxSupply)
	if err != nil {
		return domain.Faucet{}, err
	}
	faucet := domain.Faucet{
		ID:        id,
		Symbol:    symbol,
		Decimals:  decimals,
		MaxSupply: fmt.Sprintf("%d", maxSupply),
	}
	if err := s.registry.AppendFaucet(faucet); err != nil {
		return domain.Faucet{}, err
	}
	return faucet, nil
}

// GetConsumableNotes lists the inbound notes the account can claim.
func (s *Service) GetConsumableNotes(ctx context.Context, account domain.AccountID) ([]domain.NoteHandle, error) {
	return s.gateway.ListConsumableNotes(ctx, account)
}

// ConsumeAll claims every currently consumable note of the account in
// one transaction, then refreshes the portfolio once. With nothing to
// consume it returns an empty receipt without touching the network
// again.
func (s *Service) ConsumeAll(ctx context.Context, account domain.AccountID) (Receipt, error) {
	notes, err := s.gateway.ListConsumableNotes(ctx, account)
	if err != nil {
		return Receipt{}, err
	}
	if len(notes) == 0 {
		s.log.Info().Str("account", account.String()).Msg("no consumable notes")
		return Receipt{}, nil
	}
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	ref, err := s.gateway.Consume(ctx, account, ids)
	if err != nil {
		return Receipt{}, err
	}
	if _, err := s.reconciler.Refresh(ctx, account); err != nil {
		s.log.Warn().Err(err).Str("account", account.String()).Msg("post-consume portfolio refresh failed")
	}
	return s.receipt(ref), nil
}

func (s *Service) receipt(ref domain.TxRef) Receipt {
	return Receipt{TxRef: ref, ExplorerURL: ExplorerTxURL(s.explorerHost, ref)}
}
