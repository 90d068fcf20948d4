// Package db owns the server's relational storage: connection setup,
// migrations, and repository construction.
package db

import (
	"context"
	"database/sql"

	"github.com/villa-app/villa/internal/server/nicknames"
)

// RepositoryManager hands out repositories bound to a shared connection pool.
type RepositoryManager interface {
	Conn() *sql.DB
	Nicknames() nicknames.Repository
	RunMigrations(ctx context.Context) error
}
