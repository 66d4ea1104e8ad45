// Package cache is a best-effort response cache backed by a Postgres side
// table. Entries are keyed by a canonical serialization of the request
// parameters and expire after a fixed TTL. The cache is an optimization
// only: lookups and writes swallow their own failures, and no caller may
// depend on it for read-after-write consistency.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Store reads and writes cached response payloads.
type Store struct {
	db  *pgxpool.Pool
	ttl time.Duration
	log zerolog.Logger
}

// NewStore creates a cache store with a fixed time-to-live.
func NewStore(db *pgxpool.Pool, ttl time.Duration, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		ttl: ttl,
		log: log,
	}
}

// Key builds a canonical cache key from an operation name and its
// parameters. Struct field order makes the serialization stable.
func Key(operation string, params interface{}) string {
	encoded, err := json.Marshal(params)
	if err != nil {
		return operation
	}
	return fmt.Sprintf("%s:%s", operation, encoded)
}

// Get returns the cached payload for a key if a live entry exists.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	var payload []byte
	err := s.db.QueryRow(ctx, `
		SELECT payload
		FROM analytics_response_cache
		WHERE cache_key = $1 AND expires_at > NOW()
	`, key).Scan(&payload)
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores a payload under a key, replacing any previous entry.
func (s *Store) Set(ctx context.Context, key string, payload []byte) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO analytics_response_cache (cache_key, payload, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key) DO UPDATE SET
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at
	`, key, payload, time.Now().Add(s.ttl))
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}
