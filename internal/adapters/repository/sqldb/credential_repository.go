package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vncsmyrnk/ballot/internal/core/domain"
	"github.com/vncsmyrnk/ballot/internal/core/ports"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to a Postgres or SQLite database. The caller imports the driver.
func Open(ctx context.Context, driverName, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driverName, err)
	}
	if driverName == DriverSQLite {
		// a single writer avoids SQLITE_BUSY on the profile file
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}
	return db, nil
}

type credentialRow struct {
	Token     string `db:"token"`
	Phone     string `db:"phone"`
	ExpiresAt int64  `db:"expires_at"`
}

type credentialRepository struct {
	db  *sqlx.DB
	ttl time.Duration
	now func() time.Time
}

func NewCredentialRepository(db *sqlx.DB, ttl time.Duration) ports.CredentialRepository {
	return &credentialRepository{
		db:  db,
		ttl: ttl,
		now: time.Now,
	}
}

func (r *credentialRepository) Save(ctx context.Context, key string, cred domain.Credential) error {
	query := r.db.Rebind(`
		INSERT INTO credentials (session_key, token, phone, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_key) DO UPDATE
		SET token = excluded.token,
		    phone = excluded.phone,
		    expires_at = excluded.expires_at,
		    updated_at = excluded.updated_at
	`)
	now := r.now()
	var expiresAt int64
	if r.ttl > 0 {
		expiresAt = now.Add(r.ttl).Unix()
	}
	_, err := r.db.ExecContext(ctx, query, key, cred.Token, cred.Phone, expiresAt, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

func (r *credentialRepository) Get(ctx context.Context, key string) (*domain.Credential, error) {
	query := r.db.Rebind(`SELECT token, phone, expires_at FROM credentials WHERE session_key = ?`)

	var row credentialRow
	err := r.db.GetContext(ctx, &row, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	if row.ExpiresAt > 0 && r.now().Unix() >= row.ExpiresAt {
		if err := r.Delete(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &domain.Credential{Token: row.Token, Phone: row.Phone}, nil
}

func (r *credentialRepository) Delete(ctx context.Context, key string) error {
	query := r.db.Rebind(`DELETE FROM credentials WHERE session_key = ?`)
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
