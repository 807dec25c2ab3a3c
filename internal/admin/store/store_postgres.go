package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"greenreg/internal/admin/models"
	id "greenreg/pkg/domain"
	"greenreg/pkg/platform/sentinel"
)

// PostgresStore persists accounts in the admin_users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO admin_users (id, email, full_name, password_hash, role, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(account.ID),
		emailKey(account.Email),
		account.FullName,
		account.PasswordHash,
		account.Role.String(),
		account.Active,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, adminID id.AdminID) (*models.Account, error) {
	query := `SELECT id, email, full_name, password_hash, role, is_active, last_login, created_at
	          FROM admin_users WHERE id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, uuid.UUID(adminID)))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT id, email, full_name, password_hash, role, is_active, last_login, created_at
	          FROM admin_users WHERE email = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, emailKey(email)))
}

func (s *PostgresStore) TouchLastLogin(ctx context.Context, adminID id.AdminID, at time.Time) error {
	query := `UPDATE admin_users SET last_login = $2 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, uuid.UUID(adminID), at)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.Account, error) {
	var (
		account   models.Account
		rawID     uuid.UUID
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(&rawID, &account.Email, &account.FullName, &account.PasswordHash,
		&role, &account.Active, &lastLogin, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	account.ID = id.AdminID(rawID)
	account.Role = id.Role(strings.TrimSpace(role))
	if lastLogin.Valid {
		account.LastLogin = &lastLogin.Time
	}
	return &account, nil
}
