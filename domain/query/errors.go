package query

import "errors"

// Error taxonomy. All of these are per-request and recoverable; the
// pipeline boundary maps them into the response error field. Fatal
// configuration errors never reach this package — they abort startup.
var (
	// ErrDataAccess indicates the relational store was unreachable or the
	// engine rejected the statement. The engine's literal message is
	// preserved in the wrap chain for debugging bad translations.
	ErrDataAccess = errors.New("data access error")

	// ErrTranslation indicates the translation capability failed or
	// returned text no SQL statement could be extracted from.
	ErrTranslation = errors.New("translation error")

	// ErrWriteRejected indicates the translated SQL attempted a mutation.
	ErrWriteRejected = errors.New("write statements are not allowed")
)
