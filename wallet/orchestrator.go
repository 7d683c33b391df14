package wallet

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/q3x-finance/miden-poc-ui/domain"
)

// RecipientRow is one row of the multisender form, exactly as entered.
// Rows where either field is blank are skipped, not rejected.
type RecipientRow struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

// BatchInput is everything one batch send needs. The faucet is shared by
// the whole batch: one issuer per submission.
type BatchInput struct {
	Sender  domain.AccountID
	Faucet  domain.Faucet
	Rows    []RecipientRow
	Private bool
}

// Orchestrator validates a recipient list, builds one note per valid
// row, aggregates the notes into exactly one batch transaction and
// submits it through the Gateway. After a successful submission it
// refreshes the sender's portfolio.
type Orchestrator struct {
	gateway    *Gateway
	reconciler *Reconciler
	log        zerolog.Logger

	mu       sync.Mutex
	inFlight map[domain.AccountID]struct{}
}

func NewOrchestrator(gateway *Gateway, reconciler *Reconciler, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		gateway:    gateway,
		reconciler: reconciler,
		log:        log,
		inFlight:   make(map[domain.AccountID]struct{}),
	}
}

// SendBatch runs the whole multi-recipient transfer workflow and returns
// the ledger's transaction reference.
//
// Validation happens before any network access: blank rows are filtered,
// an empty remainder fails with KindNoValidRecipients and a missing
// faucet with KindMissingFaucet. Every surviving row becomes one note,
// in input order, and all notes ride in a single transaction — the
// ledger commits or rejects them together, so a failure means nothing
// was sent.
//
// Each submission assumes exclusive knowledge of the sender's current
// state, so a second SendBatch for the same sender while one is in
// flight fails with KindSendInProgress. There is no way to abort a
// submission once it has started.
func (o *Orchestrator) SendBatch(ctx context.Context, in BatchInput) (domain.TxRef, error) {
	rows := validRows(in.Rows)
	if len(rows) == 0 {
		return "", newError(KindNoValidRecipients, "no valid recipients")
	}
	if in.Faucet.ID == "" {
		return "", newError(KindMissingFaucet, "no faucet selected for the batch")
	}

	if !o.begin(in.Sender) {
		return "", newError(KindSendInProgress, "a send for "+in.Sender.String()+" is already in flight")
	}
	defer o.end(in.Sender)

	noteType := domain.NoteTypePublic
	if in.Private {
		noteType = domain.NoteTypePrivate
	}

	notes := make([]domain.TransferNote, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(strings.TrimSpace(row.Amount))
		if err != nil {
			return "", wrapError(KindInvalidAmount, "unparseable amount "+row.Amount, err)
		}
		note, err := BuildNote(in.Sender, strings.TrimSpace(row.Address), in.Faucet, amount, noteType)
		if err != nil {
			return "", err
		}
		notes = append(notes, note)
	}

	o.log.Info().
		Str("sender", in.Sender.String()).
		Str("faucet", in.Faucet.ID.String()).
		Int("recipients", len(notes)).
		Str("note_type", string(noteType)).
		Msg("submitting batch transfer")

	ref, err := o.gateway.Submit(ctx, &domain.BatchTransaction{Sender: in.Sender, Notes: notes})
	if err != nil {
		return "", err
	}

	if _, err := o.reconciler.Refresh(ctx, in.Sender); err != nil {
		// The transfer itself succeeded; a stale portfolio is the only
		// consequence, and the next refresh heals it.
		o.log.Warn().Err(err).Str("sender", in.Sender.String()).Msg("post-send portfolio refresh failed")
	}
	return ref, nil
}

func (o *Orchestrator) begin(sender domain.AccountID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[sender]; busy {
		return false
	}
	o.inFlight[sender] = struct{}{}
	return true
}

func (o *Orchestrator) end(sender domain.AccountID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, sender)
}

// validRows drops rows with a blank address or amount, preserving input
// order for the rest.
func validRows(rows []RecipientRow) []RecipientRow {
	kept := make([]RecipientRow, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(r.Address) == "" || strings.TrimSpace(r.Amount) == "" {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
