package nicknames

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/villa-app/villa/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) GetByAddress(ctx context.Context, address string) (*Record, error) {
	query :=
		`SELECT address, nickname, change_count, created_at, updated_at FROM nicknames
		 WHERE address = $1
		 `

	record := &Record{}
	err := r.db.QueryRowContext(ctx, query, address).
		Scan(&record.Address, &record.Nickname, &record.ChangeCount, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return record, nil
}

func (r *PostgresRepository) GetByNickname(ctx context.Context, nickname string) (*Record, error) {
	query :=
		`SELECT address, nickname, change_count, created_at, updated_at FROM nicknames
		 WHERE nickname = $1
		 `

	record := &Record{}
	err := r.db.QueryRowContext(ctx, query, nickname).
		Scan(&record.Address, &record.Nickname, &record.ChangeCount, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return record, nil
}

func (r *PostgresRepository) Create(ctx context.Context, record *Record) error {
	query :=
		`INSERT INTO nicknames (address, nickname, change_count)
		 VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, record.Address, record.Nickname, record.ChangeCount)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, record *Record) error {
	query :=
		`UPDATE nicknames
		 SET nickname = $2, change_count = $3, updated_at = now()
		 WHERE address = $1
		 `

	res, err := r.db.ExecContext(ctx, query, record.Address, record.Nickname, record.ChangeCount)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
