package domain

import "github.com/shopspring/decimal"

// TransferRequest is one validated (recipient, amount, faucet) tuple of a
// batch send. Requests are transient: they exist only between validation
// and note construction.
type TransferRequest struct {
	Recipient AccountID
	Amount    decimal.Decimal
	Faucet    FaucetID
}

// TxRef is an opaque transaction reference returned by the ledger on a
// successful submission. It is a hex string usable in explorer links.
type TxRef string

func (t TxRef) String() string { return string(t) }

// BatchTransaction bundles the notes of one batch send. The ledger
// accepts or rejects it atomically — notes are never submitted one by
// one, and there is no partial-batch commit.
type BatchTransaction struct {
	Sender AccountID
	Notes  []TransferNote
}
