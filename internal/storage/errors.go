package storage

import (
	"errors"
	"fmt"
)

// ConnectError reports a failure to open or ping the store.
type ConnectError struct {
	Kind string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("storage %s: connect: %v", e.Kind, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SchemaError reports a failure to create or verify the target table.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("storage: ensure schema %s: %v", e.Table, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// WriteError reports a failed batch insert. Rows is the size of the batch
// that was not written.
type WriteError struct {
	Rows int
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage: insert batch of %d rows: %v", e.Rows, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// RejectError reports records left out of a batch whose other rows were
// written. InsertBatch returns it together with the number of rows written.
type RejectError struct {
	Rows int
	Err  error
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("storage: rejected %d rows: %v", e.Rows, e.Err)
}

func (e *RejectError) Unwrap() error { return e.Err }

// ErrIDOutOfRange is returned by SignedRow for ids that do not fit a signed
// BIGINT column.
var ErrIDOutOfRange = errors.New("id exceeds signed 64-bit range")
