package calendar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connection is one stored Google account link.
type Connection struct {
	ID           int64     `db:"id"`
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
}

// Expired reports whether the access token is past its expiry at now.
func (c Connection) Expired(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}

// Repository stores connection records.
type Repository interface {
	Upsert(ctx context.Context, c Connection) error
	Get(ctx context.Context, userID string) (Connection, bool, error)
	UpdateToken(ctx context.Context, userID, accessToken, refreshToken string, expiresAt time.Time) error
	DeleteAll(ctx context.Context) error
}

// SQLRepo is a Repository over sqlite3 or postgres.
type SQLRepo struct {
	DB *sqlx.DB
}

func NewSQLRepo(db *sqlx.DB) *SQLRepo {
	return &SQLRepo{DB: db}
}

// OpenRepo connects to a dedicated connection store, for example a hosted
// postgres database shared between machines.
func OpenRepo(ctx context.Context, driver, dsn string) (*SQLRepo, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s connection store: %w", driver, err)
	}
	r := NewSQLRepo(db)
	if err := r.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// EnsureSchema creates the connections table on postgres. The sqlite table
// comes from the app database migrations.
func (r *SQLRepo) EnsureSchema(ctx context.Context) error {
	if r.DB.DriverName() != "postgres" {
		return nil
	}
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS google_calendar_connections (
			id            BIGSERIAL PRIMARY KEY,
			user_id       TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL DEFAULT '',
			access_token  TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at    TIMESTAMPTZ NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create connections table: %w", err)
	}
	return nil
}

func (r *SQLRepo) Upsert(ctx context.Context, c Connection) error {
	q := r.DB.Rebind(`
		INSERT INTO google_calendar_connections (user_id, email, access_token, refresh_token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			email = excluded.email,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at`)
	_, err := r.DB.ExecContext(ctx, q, c.UserID, c.Email, c.AccessToken, c.RefreshToken, c.ExpiresAt.UTC(), c.CreatedAt.UTC())
	return err
}

func (r *SQLRepo) Get(ctx context.Context, userID string) (Connection, bool, error) {
	var c Connection
	q := r.DB.Rebind(`SELECT id, user_id, email, access_token, refresh_token, expires_at, created_at
		FROM google_calendar_connections WHERE user_id = ?`)
	err := r.DB.GetContext(ctx, &c, q, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Connection{}, false, nil
	}
	if err != nil {
		return Connection{}, false, err
	}
	return c, true, nil
}

func (r *SQLRepo) UpdateToken(ctx context.Context, userID, accessToken, refreshToken string, expiresAt time.Time) error {
	q := r.DB.Rebind(`UPDATE google_calendar_connections
		SET access_token = ?, refresh_token = ?, expires_at = ? WHERE user_id = ?`)
	_, err := r.DB.ExecContext(ctx, q, accessToken, refreshToken, expiresAt.UTC(), userID)
	return err
}

func (r *SQLRepo) DeleteAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM google_calendar_connections`)
	return err
}
