package emit

import (
	"context"
	"log/slog"

	"github.com/paylens/ingestd/internal/ledger"
	"github.com/paylens/ingestd/internal/payload"
)

// LedgerEmitter persists events to the SQLite ledger. Provider redeliveries
// of an already-recorded event are absorbed silently unless the content
// diverges from what was stored first.
type LedgerEmitter struct {
	store  *ledger.Store
	logger *slog.Logger
}

func NewLedgerEmitter(store *ledger.Store, logger *slog.Logger) *LedgerEmitter {
	return &LedgerEmitter{store: store, logger: logger}
}

func (l *LedgerEmitter) Emit(ctx context.Context, event *payload.NormalizedEvent) error {
	rec, duplicate, err := l.store.Append(ctx, event)
	if err != nil {
		return err
	}
	if duplicate {
		if rec.Fingerprint != ledger.Fingerprint(event) {
			l.logger.Warn("redelivered event content diverges from stored record",
				"event_id", event.EventID,
				"event_type", event.EventType,
			)
		} else {
			l.logger.Debug("duplicate delivery absorbed",
				"event_id", event.EventID,
				"duplicates", rec.Duplicates,
			)
		}
	}
	return nil
}
