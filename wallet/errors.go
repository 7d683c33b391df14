package wallet

import "errors"

// Kind is a stable category for programmatic error handling. Callers
// should branch on Kind rather than matching error strings; Error()
// messages are for humans and may evolve.
type Kind string

const (
	// Validation kinds. These are detected before any network call and
	// are always recoverable locally: the user corrects input and
	// retries with no side effects incurred.
	KindMalformedIdentifier Kind = "MalformedIdentifier"
	KindInvalidAmount       Kind = "InvalidAmount"
	KindNoValidRecipients   Kind = "NoValidRecipients"
	KindMissingFaucet       Kind = "MissingFaucet"

	// Ledger/network kinds. These surface to the caller; submissions are
	// never retried automatically to avoid duplicate transactions.
	KindAccountNotFound    Kind = "AccountNotFound"
	KindSubmissionFailed   Kind = "SubmissionFailed"
	KindNetworkUnavailable Kind = "NetworkUnavailable"

	// KindSendInProgress rejects a batch send while another one for the
	// same sender is still in flight.
	KindSendInProgress Kind = "SendInProgress"
)

// Error is the wallet's structured error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

func wrapError(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the Kind of a structured error, or "" if err carries
// none.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}
