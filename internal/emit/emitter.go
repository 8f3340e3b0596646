// Package emit delivers normalized events to downstream sinks: the log
// stream, the durable ledger, and optionally a Kafka topic. Sinks are
// fan-out targets behind one interface; the webhook response never waits on
// or depends on any of them.
package emit

import (
	"context"
	"errors"

	"github.com/paylens/ingestd/internal/payload"
)

// Emitter is one downstream sink for normalized events.
type Emitter interface {
	Emit(ctx context.Context, event *payload.NormalizedEvent) error
}

// Multi fans an event out to every sink. All sinks are attempted even when
// earlier ones fail; failures are joined into one error.
type Multi []Emitter

func (m Multi) Emit(ctx context.Context, event *payload.NormalizedEvent) error {
	var errs []error
	for _, e := range m {
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
