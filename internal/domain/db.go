package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, MongoDB) owns its own schema setup,
// so the whole backend can be swapped through configuration.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Store is a Database that also hands out the repositories handlers need.
type Store interface {
	Database
	Users() UserRepository
	Books() BookRepository
}
