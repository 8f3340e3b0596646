package ingest

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/paylens/ingestd/internal/payload"
)

// Headers is a header mapping with case-insensitive lookup. Providers do not
// guarantee header casing (stripe-signature vs Stripe-Signature), and
// intermediaries may rewrite it.
type Headers map[string]string

// Get returns the value for name, matched case-insensitively. Empty string
// when absent.
func (h Headers) Get(name string) string {
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Request is one inbound webhook delivery, decoupled from the transport that
// carried it. Bodies forwarded through gateways may arrive base64-encoded;
// IsBase64Encoded says how to recover the original bytes.
type Request struct {
	Headers         Headers
	Body            string
	IsBase64Encoded bool
}

// RawBody reconstructs the exact bytes the provider signed. Signature
// verification requires byte-exact fidelity, so the body is never reformatted
// or trimmed.
func (r Request) RawBody() ([]byte, error) {
	if r.IsBase64Encoded {
		raw, err := base64.StdEncoding.DecodeString(r.Body)
		if err != nil {
			return nil, fmt.Errorf("decode base64 body: %w", err)
		}
		return raw, nil
	}
	return []byte(r.Body), nil
}

// Response is the handler's answer to the provider.
type Response struct {
	Status  int
	Headers map[string]string
	Body    string
}

// Config holds per-endpoint processing settings.
type Config struct {
	// Secret is the shared signing secret (whsec_...). An empty secret is a
	// fatal misconfiguration surfaced as a 500 on every request.
	Secret string

	// SignatureHeader is the provider's signature header name.
	SignatureHeader string

	// Tolerance bounds the accepted age of a signed timestamp. Zero or
	// negative disables the window check.
	Tolerance time.Duration
}

// DefaultSignatureHeader is the header Stripe delivers signatures in.
const DefaultSignatureHeader = "Stripe-Signature"

// Emitter receives each normalized event. Emission is fire-and-forget from
// the processor's perspective: failures are logged, never surfaced to the
// provider.
type Emitter interface {
	Emit(ctx context.Context, event *payload.NormalizedEvent) error
}
