// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories with the storage package.
//
// Importing this package makes the following storage kinds available:
//
//   - "mysql"    (dbimport/internal/storage/mysql)
//   - "postgres" (dbimport/internal/storage/postgres)
//   - "mssql"    (dbimport/internal/storage/mssql)
//   - "sqlite"   (dbimport/internal/storage/sqlite)
//
// Typical usage (in cmd/dbimport or a similar wiring layer):
//
//	import (
//	    _ "dbimport/internal/storage/all" // enable all built-in backends
//
//	    "dbimport/internal/storage"
//	)
//
//	repo, err := storage.New(ctx, storage.Config{Kind: cfg.DB.Kind, ...})
//	if err != nil {
//	    // handle error
//	}
//	defer repo.Close()
//
// If you want a binary that supports only a subset of backends, import the
// required backend packages directly instead of this package.
package all

import (
	_ "dbimport/internal/storage/mssql"
	_ "dbimport/internal/storage/mysql"
	_ "dbimport/internal/storage/postgres"
	_ "dbimport/internal/storage/sqlite"
)
