// Package ingest processes one webhook delivery end to end: configuration
// check, signature verification, payload normalization, PII tokenization and
// emission. Each invocation is stateless and independent, so provider
// redelivery of the same event is always safe to reprocess.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/paylens/ingestd/internal/payload"
	"github.com/paylens/ingestd/internal/signature"
)

const ackBody = `{"ok": true}`

// Processor turns one inbound request descriptor into a response, emitting a
// normalized event exactly when signature verification succeeds.
type Processor struct {
	cfg     Config
	emitter Emitter
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Processor. The secret stays inside cfg; it is never read
// from process environment at request time, which keeps request handling
// deterministic under test.
func New(cfg Config, emitter Emitter, logger *slog.Logger) *Processor {
	if cfg.SignatureHeader == "" {
		cfg.SignatureHeader = DefaultSignatureHeader
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = signature.DefaultTolerance
	}
	return &Processor{
		cfg:     cfg,
		emitter: emitter,
		logger:  logger,
		now:     time.Now,
	}
}

// Process runs the single linear request cycle. It always returns a
// response; it never panics on malformed input.
//
// Status mapping:
//
//	500  missing secret, or a processing error after a valid signature
//	400  signature header absent (non-provider request shape)
//	401  signature present but cryptographically rejected
//	200  verified and normalized; body {"ok": true}
func (p *Processor) Process(ctx context.Context, req Request) Response {
	if p.cfg.Secret == "" {
		p.logger.Error("webhook secret is not configured")
		return textResponse(http.StatusInternalServerError, "missing webhook secret configuration")
	}

	sigHeader := req.Headers.Get(p.cfg.SignatureHeader)
	if sigHeader == "" {
		p.logger.Warn("signature header missing", "header", p.cfg.SignatureHeader)
		return textResponse(http.StatusBadRequest, "missing signature header")
	}

	rawBody, err := req.RawBody()
	if err != nil {
		p.logger.Warn("request body could not be decoded", "error", err)
		return textResponse(http.StatusBadRequest, "invalid request body encoding")
	}

	if err := signature.Verify(rawBody, sigHeader, p.cfg.Secret, p.cfg.Tolerance, p.now); err != nil {
		if errors.Is(err, signature.ErrNoValidSignature) {
			// Security event: log the rejection, nothing from the payload.
			p.logger.Warn("invalid webhook signature")
			return textResponse(http.StatusUnauthorized, "invalid signature")
		}
		p.logger.Error("signature verification error", "error", err)
		return textResponse(http.StatusInternalServerError, err.Error())
	}

	event, err := payload.Decode(rawBody)
	if err != nil {
		p.logger.Error("verified payload could not be decoded", "error", err)
		return textResponse(http.StatusInternalServerError, err.Error())
	}

	p.logger.Info("webhook verified", "event_id", event.ID, "event_type", event.Type)

	normalized := payload.Normalize(event, p.now())

	// Fire-and-forget: the provider expects a fast acknowledgment, and a
	// failed emission must not trigger redelivery of an already verified
	// event.
	if err := p.emitter.Emit(ctx, normalized); err != nil {
		p.logger.Error("emit normalized event failed",
			"event_id", normalized.EventID,
			"event_type", normalized.EventType,
			"error", err,
		)
	}

	return Response{
		Status:  http.StatusOK,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    ackBody,
	}
}

// textResponse builds a plain-text error response.
func textResponse(status int, message string) Response {
	return Response{
		Status:  status,
		Headers: map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:    message,
	}
}
