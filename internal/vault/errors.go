package vault

import "errors"

var (
	// ErrSignerUnavailable is returned by every write path before any
	// account list is assembled when the client has no signer configured.
	ErrSignerUnavailable = errors.New("signer unavailable")

	// ErrAccountNotFound wraps the RPC not-found case. It is the expected
	// first-use path for portfolio reads and fatal for vault/mint reads.
	ErrAccountNotFound = errors.New("account not found")

	// ErrDecodeFailure means the account bytes do not match the expected
	// layout. Never coerced into a not-found.
	ErrDecodeFailure = errors.New("account decode failure")

	// ErrTransportFailure covers network/RPC level failures.
	ErrTransportFailure = errors.New("transport failure")

	// ErrLedgerRejection means the program rejected a submitted transaction.
	ErrLedgerRejection = errors.New("transaction rejected by program")

	// ErrUnknownOutcome means a transaction was submitted but confirmation
	// timed out. The caller should re-query before retrying; the transfer
	// may still land.
	ErrUnknownOutcome = errors.New("transaction outcome unknown")
)
