// Package ledger persists normalized events as an append-only record keyed
// by (provider, event_id). Providers redeliver webhooks on any non-2xx
// response, so the ledger absorbs duplicates instead of erroring: a
// redelivered event bumps a duplicate counter and the stored row wins.
package ledger

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/paylens/ingestd/internal/payload"
)

var ErrNotFound = errors.New("event not found")

// Record is one stored normalized event.
type Record struct {
	ID          string
	Provider    string
	EventID     string
	EventType   string
	Fingerprint string
	Normalized  json.RawMessage
	ReceivedAt  time.Time
	Duplicates  int
}

// Store reads and writes the webhook_events table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append records a normalized event. When (provider, event_id) already
// exists the stored row is kept, its duplicate counter is bumped, and the
// second return value is true. A fingerprint mismatch on a duplicate means
// the provider redelivered the same event id with different content; the
// caller decides how loudly to report that.
func (s *Store) Append(ctx context.Context, ev *payload.NormalizedEvent) (*Record, bool, error) {
	if ev == nil {
		return nil, false, fmt.Errorf("event is nil")
	}
	if ev.EventID == "" {
		return nil, false, fmt.Errorf("event id is empty")
	}

	normalized, err := json.Marshal(ev)
	if err != nil {
		return nil, false, fmt.Errorf("marshal normalized event: %w", err)
	}

	id := uuid.NewString()
	receivedAt := time.Unix(ev.ReceivedAt, 0).UTC().Format(time.RFC3339Nano)

	row := s.db.QueryRowContext(ctx, `
INSERT INTO webhook_events(id, provider, event_id, event_type, fingerprint, normalized, received_at, duplicates)
VALUES(?, ?, ?, ?, ?, ?, ?, 0)
ON CONFLICT(provider, event_id) DO UPDATE SET
  duplicates = webhook_events.duplicates + 1
RETURNING id, provider, event_id, event_type, fingerprint, normalized, received_at, duplicates;
`, id, ev.Provider, ev.EventID, ev.EventType, Fingerprint(ev), string(normalized), receivedAt)

	rec, err := scanRecord(row)
	if err != nil {
		return nil, false, fmt.Errorf("append event: %w", err)
	}
	return rec, rec.Duplicates > 0, nil
}

// Get returns the stored record for a provider event id.
func (s *Store) Get(ctx context.Context, provider, eventID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, provider, event_id, event_type, fingerprint, normalized, received_at, duplicates
FROM webhook_events
WHERE provider = ? AND event_id = ?;
`, provider, eventID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return rec, nil
}

// Fingerprint derives a stable BLAKE3 digest of the event's content.
// received_at is excluded: redeliveries of identical content arrive at
// different times and must fingerprint identically.
func Fingerprint(ev *payload.NormalizedEvent) string {
	stable := *ev
	stable.ReceivedAt = 0

	b, err := json.Marshal(&stable)
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func scanRecord(row *sql.Row) (*Record, error) {
	var (
		rec         Record
		normalized  string
		receivedAtS string
	)
	err := row.Scan(
		&rec.ID, &rec.Provider, &rec.EventID, &rec.EventType,
		&rec.Fingerprint, &normalized, &receivedAtS, &rec.Duplicates,
	)
	if err != nil {
		return nil, err
	}
	rec.Normalized = json.RawMessage(normalized)
	if t, err := time.Parse(time.RFC3339Nano, receivedAtS); err == nil {
		rec.ReceivedAt = t
	}
	return &rec, nil
}
