// Command dbimport streams newline-delimited tweet JSON from stdin into a
// relational table, and serves a read-only dashboard over that table.
//
//	twitter-stream | dbimport ingest config.yaml
//	dbimport serve config.yaml
//	dbimport validate config.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	// register all backends with the storage factory.
	_ "dbimport/internal/storage/all"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		var rep *reportedError
		if !errors.As(err, &rep) {
			fmt.Fprintln(os.Stderr, "dbimport:", err)
		}
		os.Exit(1)
	}
}

// reportedError marks an error that was already logged; main only sets the
// exit status for it.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }
