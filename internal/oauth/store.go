package oauth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrTokenNotFound = errors.New("external token not found")

// DB is the subset of *pgxpool.Pool the store needs. pgxmock satisfies it in
// tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store interface {
	Save(ctx context.Context, token ExternalToken) error
	Get(ctx context.Context, userID string, platform Platform) (ExternalToken, error)
	Delete(ctx context.Context, userID string, platform Platform) error
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func AutoMigrate(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS external_tokens(
          user_id TEXT NOT NULL,
          platform TEXT NOT NULL,
          access_token TEXT NOT NULL,
          refresh_token TEXT,
          expires_at TIMESTAMPTZ,
          created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
          PRIMARY KEY(user_id, platform)
      )
  `)
	if err != nil {
		log.Printf("migrate external_tokens: %v", err)
		return err
	}
	return nil
}

// Save upserts the token for (user, platform). Access token, refresh token and
// expiry are overwritten in place.
func (s *PostgresStore) Save(ctx context.Context, token ExternalToken) error {
	var refresh *string
	if token.RefreshToken != "" {
		refresh = &token.RefreshToken
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO external_tokens(user_id, platform, access_token, refresh_token, expires_at)
        VALUES($1,$2,$3,$4,$5)
        ON CONFLICT(user_id, platform) DO UPDATE SET
            access_token  = EXCLUDED.access_token,
            refresh_token = EXCLUDED.refresh_token,
            expires_at    = EXCLUDED.expires_at,
            updated_at    = now()
    `, token.UserID, string(token.Platform), token.AccessToken, refresh, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save external token: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string, platform Platform) (ExternalToken, error) {
	tok := ExternalToken{UserID: userID, Platform: platform}
	var expiresAt *time.Time
	err := s.db.QueryRow(ctx, `
        SELECT access_token, COALESCE(refresh_token, ''), expires_at
        FROM external_tokens
        WHERE user_id=$1 AND platform=$2
    `, userID, string(platform)).Scan(&tok.AccessToken, &tok.RefreshToken, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ExternalToken{}, ErrTokenNotFound
		}
		return ExternalToken{}, fmt.Errorf("load external token: %w", err)
	}
	tok.ExpiresAt = expiresAt
	return tok, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID string, platform Platform) error {
	res, err := s.db.Exec(ctx, `DELETE FROM external_tokens WHERE user_id=$1 AND platform=$2`, userID, string(platform))
	if err != nil {
		return fmt.Errorf("delete external token: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}
