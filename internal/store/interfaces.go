package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"selectsense/internal/models"
)

// --- Reply Cache ---

// ReplyCache keeps assist replies keyed by ReplyKey. Get returns ErrNotFound
// on a miss.
type ReplyCache interface {
	Get(ctx context.Context, key string) (*models.Reply, error)
	Put(ctx context.Context, reply *models.Reply) error
	Ping(ctx context.Context) error
	Close() error
}

// KeyParts identifies one assist invocation.
type KeyParts struct {
	Provider  string
	Model     string
	ActionID  string
	Question  string
	Selection string
}

// ReplyKey hashes the parts of an assist invocation into a cache key. Parts
// are separated by a NUL byte so adjacent fields cannot run together.
func ReplyKey(p KeyParts) string {
	h := sha256.New()
	h.Write([]byte(strings.Join([]string{p.Provider, p.Model, p.ActionID, p.Question, p.Selection}, "\x00")))
	return hex.EncodeToString(h.Sum(nil))
}
