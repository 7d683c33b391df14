package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// NoteType selects the visibility of a transfer note on the ledger.
// It is a batch-level property: every note in one submission carries the
// same type.
type NoteType string

const (
	NoteTypePublic  NoteType = "PUBLIC"
	NoteTypePrivate NoteType = "PRIVATE"
)

// NoteTag is the fixed 4-field tag word applied to every pay-to-ID note
// built by this wallet. It is deliberately constant: the consuming
// account's note detection keys off this exact word, so it must be
// identical across the whole system and is not user-configurable.
var NoteTag = [4]uint64{1, 2, 3, 4}

// NoteAux is the auxiliary field of every built note.
const NoteAux uint64 = 0

// TransferNote is one recipient's share of a batch transfer. It is owned
// by the batch transaction until submission; afterwards ownership passes
// to the ledger network.
type TransferNote struct {
	Sender    AccountID
	Recipient AccountID
	Faucet    FaucetID
	Amount    uint64 // base units at the faucet's precision
	Type      NoteType
	Tag       [4]uint64
	Aux       uint64
}

// RecipientDigest is the deterministic address of the note: two notes
// built for the same recipient always share it, regardless of amount.
func (n TransferNote) RecipientDigest() string {
	h := sha256.New()
	h.Write([]byte(n.Recipient))
	var buf [8]byte
	for _, f := range n.Tag {
		binary.BigEndian.PutUint64(buf[:], f)
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// NoteHandle references an inbound note sitting on the ledger that the
// account may consume.
type NoteHandle struct {
	ID         string    `json:"id"`
	Faucet     FaucetID  `json:"faucet"`
	Amount     string    `json:"amount"`
	DetectedAt time.Time `json:"detectedAt"`
}
