package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/villa-app/villa/internal/server/migrations"
	"github.com/villa-app/villa/internal/server/nicknames"
)

type PostgresRepositoryManager struct {
	db        *sql.DB
	nicknames nicknames.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Nicknames() nicknames.Repository {
	return m.nicknames
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	nicknameRepo, err := nicknames.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("nickname repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:        db,
		nicknames: nicknameRepo,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
