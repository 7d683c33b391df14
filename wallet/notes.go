package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/q3x-finance/miden-poc-ui/domain"
)

// BuildNote turns one (sender, recipient, faucet, amount) tuple into a
// pay-to-ID transfer note. It is pure: no network or persistence access,
// and identical inputs always produce an identical note.
//
// The amount is scaled to an integer count of base units at the faucet's
// declared precision; anything non-positive, fractional at that
// precision, or too large for the ledger's 64-bit amounts fails with
// KindInvalidAmount. Self-transfer is legal here — the ledger decides
// whether it wants to reject it.
func BuildNote(sender domain.AccountID, recipient string, faucet domain.Faucet, amount decimal.Decimal, noteType domain.NoteType) (domain.TransferNote, error) {
	rcpt, err := domain.ParseAccountID(recipient)
	if err != nil {
		return domain.TransferNote{}, wrapError(KindMalformedIdentifier, "invalid recipient", err)
	}
	if _, err := domain.ParseFaucetID(faucet.ID.String()); err != nil {
		return domain.TransferNote{}, wrapError(KindMalformedIdentifier, "invalid faucet", err)
	}
	req := domain.TransferRequest{Recipient: rcpt, Amount: amount, Faucet: faucet.ID}

	units, err := toBaseUnits(req.Amount, faucet.Decimals)
	if err != nil {
		return domain.TransferNote{}, err
	}

	return domain.TransferNote{
		Sender:    sender,
		Recipient: req.Recipient,
		Faucet:    req.Faucet,
		Amount:    units,
		Type:      noteType,
		Tag:       domain.NoteTag,
		Aux:       domain.NoteAux,
	}, nil
}

// toBaseUnits converts a display amount to base units at the given
// precision.
func toBaseUnits(amount decimal.Decimal, decimals int32) (uint64, error) {
	if amount.Sign() <= 0 {
		return 0, newError(KindInvalidAmount, fmt.Sprintf("amount %s is not positive", amount))
	}
	scaled := amount.Shift(decimals)
	if !scaled.IsInteger() {
		return 0, newError(KindInvalidAmount,
			fmt.Sprintf("amount %s is not representable at %d decimals", amount, decimals))
	}
	units := scaled.BigInt()
	if !units.IsUint64() {
		return 0, newError(KindInvalidAmount, fmt.Sprintf("amount %s overflows the ledger amount range", amount))
	}
	return units.Uint64(), nil
}
