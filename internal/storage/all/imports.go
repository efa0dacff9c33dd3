// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// In other words, importing this package makes the following storage kinds
// available at runtime:
//
//   - "postgres" (internal/storage/postgres)
//   - "mysql"    (internal/storage/mysql)
//   - "mssql"    (internal/storage/mssql)
//   - "sqlite"   (internal/storage/sqlite)
//
// Typical usage (in cmd/csvload or a similar wiring layer):
//
//	import _ "github.com/lef237/ctj/internal/storage/all" // enable all built-in backends
//
// A binary that supports only a subset of backends can blank-import the
// required backend packages directly instead of this aggregate.
package all

import (
	_ "github.com/lef237/ctj/internal/storage/mssql"
	_ "github.com/lef237/ctj/internal/storage/mysql"
	_ "github.com/lef237/ctj/internal/storage/postgres"
	_ "github.com/lef237/ctj/internal/storage/sqlite"
)
