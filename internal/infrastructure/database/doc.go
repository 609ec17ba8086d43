// Package database provides the SQLite store behind homebar's persistent
// state: user-defined device groups and the schema migrations that create
// them.
//
// The connection runs in WAL mode with a single writer. Migrations are
// embedded into the binary by the migrations package and applied in
// version order, each in its own transaction.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
