package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/paylens/ingestd/internal/payload"
)

// LogEmitter writes each normalized event as one JSON document to the
// structured log. This is the append-only diagnostic sink; the document
// contains PII tokens only, never raw values.
type LogEmitter struct {
	logger *slog.Logger
}

func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (l *LogEmitter) Emit(ctx context.Context, event *payload.NormalizedEvent) error {
	doc, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal normalized event: %w", err)
	}
	l.logger.Info("normalized event",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"normalized", string(doc),
	)
	return nil
}
