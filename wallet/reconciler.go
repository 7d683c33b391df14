package wallet

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/q3x-finance/miden-poc-ui/domain"
)

// PortfolioListener receives each fresh portfolio snapshot. The UI layer
// hooks in here.
type PortfolioListener func(account domain.AccountID, assets []domain.Asset)

// Reconciler keeps the displayed portfolio honest by re-reading balances
// from the ledger after every mutating operation. Snapshots replace the
// previous one wholesale — no diffing, no local tracking of pending
// deltas — at the cost of one extra round trip per mutation.
type Reconciler struct {
	gateway  *Gateway
	listener PortfolioListener
	log      zerolog.Logger
}

func NewReconciler(gateway *Gateway, listener PortfolioListener, log zerolog.Logger) *Reconciler {
	return &Reconciler{gateway: gateway, listener: listener, log: log}
}

// Refresh re-queries the account's balances and republishes them.
func (r *Reconciler) Refresh(ctx context.Context, account domain.AccountID) ([]domain.Asset, error) {
	assets, err := r.gateway.GetAssets(ctx, account)
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("account", account.String()).Int("assets", len(assets)).Msg("portfolio refreshed")
	if r.listener != nil {
		r.listener(account, assets)
	}
	return assets, nil
}
