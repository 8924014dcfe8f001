package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"selectsense/internal/models"
)

const replySchema = `
CREATE TABLE IF NOT EXISTS assist_replies (
	id                TEXT PRIMARY KEY,
	cache_key         TEXT NOT NULL UNIQUE,
	provider          TEXT NOT NULL,
	model             TEXT NOT NULL,
	action_id         TEXT NOT NULL,
	reply             TEXT NOT NULL,
	prompt_tokens     INTEGER NOT NULL DEFAULT 0,
	completion_tokens INTEGER NOT NULL DEFAULT 0,
	created_at        TIMESTAMP NOT NULL
)`

// SQLiteCache implements ReplyCache on top of a SQLite database.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (or creates) the database at dsn and makes sure the
// schema exists. Use ":memory:" for a throwaway cache.
func NewSQLiteCache(ctx context.Context, dsn string) (*SQLiteCache, error) {
	if dsn == "" {
		return nil, errors.New("sqlite DSN cannot be empty")
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// Every new connection to ":memory:" is a fresh database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, replySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create reply cache schema: %w", err)
	}
	log.Debugf("Reply cache opened at %s", dsn)
	return &SQLiteCache{db: db}, nil
}

// Get returns the reply stored under key.
func (s *SQLiteCache) Get(ctx context.Context, key string) (*models.Reply, error) {
	query := `
		SELECT id, cache_key, provider, model, action_id, reply,
		       prompt_tokens, completion_tokens, created_at
		FROM assist_replies
		WHERE cache_key = ?
	`
	var r models.Reply
	var id string
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&id,
		&r.Key,
		&r.Provider,
		&r.Model,
		&r.ActionID,
		&r.Text,
		&r.PromptTokens,
		&r.CompletionTokens,
		&r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query assist_replies: %w", err)
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("stored reply has invalid id %q: %w", id, err)
	}
	return &r, nil
}

// Put inserts reply, replacing any earlier reply under the same key. A nil
// ID or zero CreatedAt is filled in.
func (s *SQLiteCache) Put(ctx context.Context, reply *models.Reply) error {
	if reply == nil || reply.Key == "" {
		return fmt.Errorf("%w: reply key is required", models.ErrValidation)
	}
	if reply.ID == uuid.Nil {
		reply.ID = uuid.New()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO assist_replies (
			id, cache_key, provider, model, action_id, reply,
			prompt_tokens, completion_tokens, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			id = excluded.id,
			reply = excluded.reply,
			prompt_tokens = excluded.prompt_tokens,
			completion_tokens = excluded.completion_tokens,
			created_at = excluded.created_at
	`
	_, err := s.db.ExecContext(ctx, query,
		reply.ID.String(),
		reply.Key,
		reply.Provider,
		reply.Model,
		reply.ActionID,
		reply.Text,
		reply.PromptTokens,
		reply.CompletionTokens,
		reply.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assist reply: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *SQLiteCache) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteCache) Close() error {
	return s.db.Close()
}

var _ ReplyCache = (*SQLiteCache)(nil)
