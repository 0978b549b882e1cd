package journal

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is satisfied by *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id string) error

	CreateJournal(ctx context.Context, j *Journal) error
	GetJournal(ctx context.Context, id string) (*Journal, error)
	ListJournals(ctx context.Context, userID string) ([]Journal, error)
	UpdateJournal(ctx context.Context, j *Journal) error
	DeleteJournal(ctx context.Context, id string) error
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func AutoMigrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users(
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		log.Printf("migrate users: %v", err)
		return err
	}

	// Also covers users tables created before email was unique.
	if _, err := db.Exec(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`); err != nil {
		log.Printf("migrate users email: %v", err)
		return err
	}

	if _, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS journals(
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			mood TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		log.Printf("migrate journals: %v", err)
		return err
	}

	_, err := db.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_journals_user_created ON journals(user_id, created_at DESC)`)
	return err
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users(id, first_name, last_name, email, created_at, updated_at)
		VALUES($1,$2,$3,$4,$5,$6)
	`, u.ID, u.FirstName, u.LastName, u.Email, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, created_at, updated_at
		FROM users WHERE id=$1
	`, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, u *User) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET first_name=$2, last_name=$3, email=$4, updated_at=$5
		WHERE id=$1
	`, u.ID, u.FirstName, u.LastName, u.Email, u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateJournal(ctx context.Context, j *Journal) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO journals(id, user_id, title, content, mood, created_at)
		VALUES($1,$2,$3,$4,$5,$6)
	`, j.ID, j.UserID, j.Title, j.Content, j.Mood, j.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return ErrConflict
			case pgForeignKeyViolation:
				return ErrNotFound
			}
		}
		return err
	}
	return nil
}

func (s *PostgresStore) GetJournal(ctx context.Context, id string) (*Journal, error) {
	var j Journal
	err := s.db.QueryRow(ctx, `
		SELECT id, user_id, title, content, mood, created_at
		FROM journals WHERE id=$1
	`, id).Scan(&j.ID, &j.UserID, &j.Title, &j.Content, &j.Mood, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (s *PostgresStore) ListJournals(ctx context.Context, userID string) ([]Journal, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, title, content, mood, created_at
		FROM journals WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Journal{}
	for rows.Next() {
		var j Journal
		if err := rows.Scan(&j.ID, &j.UserID, &j.Title, &j.Content, &j.Mood, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateJournal(ctx context.Context, j *Journal) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE journals SET title=$2, content=$3, mood=$4
		WHERE id=$1
	`, j.ID, j.Title, j.Content, j.Mood)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteJournal(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM journals WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
