// Package nicknames implements the nickname directory: one handle per
// address, globally unique, with a limited change budget.
package nicknames

import (
	"context"
	"time"
)

// Record is a directory row.
type Record struct {
	Address     string
	Nickname    string
	ChangeCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository is the persistence surface of the directory.
type Repository interface {
	// GetByAddress returns the record owned by address, or common.ErrNotFound.
	GetByAddress(ctx context.Context, address string) (*Record, error)

	// GetByNickname returns the record holding nickname, or common.ErrNotFound.
	GetByNickname(ctx context.Context, nickname string) (*Record, error)

	// Create inserts a new record.
	Create(ctx context.Context, record *Record) error

	// Update replaces the nickname and change count for record.Address.
	Update(ctx context.Context, record *Record) error
}
