package reelrec

import "errors"

var (
	// ErrNoStorage indicates the Client was created without a database option.
	ErrNoStorage = errors.New("no storage configured: use WithSQLite or WithPostgres")

	// ErrClientClosed indicates an operation on a closed Client.
	ErrClientClosed = errors.New("client is closed")
)
