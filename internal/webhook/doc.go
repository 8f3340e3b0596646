// Package webhook serves the HTTP ingestion endpoints for provider
// callbacks. Every endpoint requires signature verification against a
// pre-shared secret before any payload content is trusted.
//
// # Security Model
//
// - Signatures verified with HMAC-SHA256 and crypto/subtle (constant-time comparison)
// - Signed timestamps checked against a tolerance window to reject replays
// - Body size limits enforced to prevent DoS
// - Rejection responses never say which signature check failed
// - Request logging excludes bodies; payloads carry raw PII before tokenization
// - Secrets come from environment interpolation, never hardcoded in config
//
// # Configuration
//
// Endpoints are configured in config.yaml:
//
//	listen: "127.0.0.1:8080"
//	endpoints:
//	  - path: /webhook/stripe
//	    secret: ${STRIPE_WEBHOOK_SECRET}
//	    signature_header: Stripe-Signature
//	    tolerance: 5m
//	    max_body_size: 1MB
//
// # Request Flow
//
//  1. HTTP POST arrives at a configured path
//  2. Body size checked (413 if too large)
//  3. Request adapted into the transport-agnostic descriptor
//  4. Processor verifies the signature and normalizes the payload
//  5. Normalized event emitted to the configured sinks
//  6. 200 {"ok": true} returned to the provider
//
// # Error Responses
//
// - 400 Bad Request: signature header missing
// - 401 Unauthorized: signature present but invalid
// - 404 Not Found: unknown path
// - 413 Payload Too Large: body exceeds max_body_size
// - 500 Internal Server Error: missing secret or verification-time failure
//
// Non-2xx responses trigger provider-side redelivery; processing is
// idempotent so redelivered events are safe to run again.
package webhook
