// Package signature verifies Stripe webhook signatures.
//
// Stripe signs the raw request body with HMAC-SHA256 and reports the result
// in the Stripe-Signature header:
//
//	t=1492774577,v1=5257a869e7ecebeda32affa62cdca3fa51cad7e77a0e56ff536d0ce8e108d8bd
//
// The signed payload is "<t>.<body>", so the timestamp is covered by the
// signature and replayed deliveries outside the tolerance window can be
// rejected. A header may carry several v1 entries (secret rotation); any one
// matching signature is sufficient. Unknown schemes (v0=...) are ignored.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is the maximum accepted age of a signed timestamp.
// Matches Stripe's documented default of 300 seconds.
const DefaultTolerance = 5 * time.Minute

// ErrNoValidSignature is returned for any cryptographic rejection: malformed
// header, signature mismatch, or a timestamp outside the tolerance window.
// The message is deliberately generic; callers must not leak which check
// failed to the sender.
var ErrNoValidSignature = errors.New("no valid signature")

// signedHeader is the parsed form of a Stripe-Signature header value.
type signedHeader struct {
	timestamp  time.Time
	signatures [][]byte
}

// Verify checks header against the HMAC-SHA256 of body using secret.
// Returns nil when at least one v1 signature matches and the signed timestamp
// is within tolerance of now. A non-positive tolerance disables the window
// check.
func Verify(body []byte, header, secret string, tolerance time.Duration, now func() time.Time) error {
	if secret == "" {
		return fmt.Errorf("secret is empty")
	}

	parsed, err := parseHeader(header)
	if err != nil {
		return err
	}

	if tolerance > 0 {
		t := time.Now()
		if now != nil {
			t = now()
		}
		delta := t.Sub(parsed.timestamp)
		if delta < 0 {
			delta = -delta
		}
		if delta > tolerance {
			return ErrNoValidSignature
		}
	}

	expected := computeSignature(parsed.timestamp, body, secret)
	for _, sig := range parsed.signatures {
		// Constant-time comparison to prevent timing attacks.
		if subtle.ConstantTimeCompare(expected, sig) == 1 {
			return nil
		}
	}
	return ErrNoValidSignature
}

// parseHeader splits a Stripe-Signature value into its timestamp and v1
// signatures. All parse failures collapse to ErrNoValidSignature so that
// error responses never reveal header format details.
func parseHeader(header string) (signedHeader, error) {
	parsed := signedHeader{}
	if header == "" {
		return parsed, ErrNoValidSignature
	}

	for _, pair := range strings.Split(header, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return parsed, ErrNoValidSignature
		}

		switch parts[0] {
		case "t":
			unix, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return parsed, ErrNoValidSignature
			}
			parsed.timestamp = time.Unix(unix, 0)
		case "v1":
			sig, err := hex.DecodeString(parts[1])
			if err != nil {
				// Tolerate one bad entry; another v1 may still match.
				continue
			}
			parsed.signatures = append(parsed.signatures, sig)
		default:
			// v0 and future schemes are ignored.
			continue
		}
	}

	if parsed.timestamp.IsZero() || len(parsed.signatures) == 0 {
		return parsed, ErrNoValidSignature
	}
	return parsed, nil
}

// computeSignature computes the HMAC-SHA256 of "<unix ts>.<body>".
func computeSignature(t time.Time, body []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", t.Unix())
	mac.Write(body)
	return mac.Sum(nil)
}

// Sign produces a Stripe-Signature header value for body at time t.
// Used by tests and local delivery tooling.
func Sign(t time.Time, body []byte, secret string) string {
	sig := computeSignature(t, body, secret)
	return fmt.Sprintf("t=%d,v1=%s", t.Unix(), hex.EncodeToString(sig))
}
