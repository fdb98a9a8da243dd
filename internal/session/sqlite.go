package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/ljcl79/shophub/internal/domain"
)

// SQLiteRegistry is the durable Registry implementation. It satisfies the
// same contract as MemoryRegistry so the gate does not care which one it
// was handed.
type SQLiteRegistry struct {
	db *sql.DB
}

func NewSQLiteRegistry(dbPath string) (*SQLiteRegistry, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteRegistry{db: db}, nil
}

func (r *SQLiteRegistry) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *SQLiteRegistry) FindByEmail(ctx context.Context, email string) (*domain.CredentialRecord, error) {
	query := `
		SELECT id, email, password_hash, name
		FROM users
		WHERE email = $1
	`

	rec := &domain.CredentialRecord{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&rec.UserID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.Name,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return rec, nil
}

func (r *SQLiteRegistry) Insert(ctx context.Context, email, passwordHash, name string) (*domain.CredentialRecord, error) {
	// Check first so a duplicate maps to the taxonomy error instead of a
	// driver-specific constraint failure.
	if _, err := r.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
	`

	res, err := r.db.ExecContext(ctx, query, email, passwordHash, name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return &domain.CredentialRecord{
		UserID:       id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
	}, nil
}

func (r *SQLiteRegistry) Close() error {
	return r.db.Close()
}
