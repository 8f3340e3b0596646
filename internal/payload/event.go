// Package payload models the verified provider event and its rewrite into
// the provider-agnostic normalized shape consumed by reconciliation.
//
// The nested data.object varies structurally by event type, so extraction is
// best-effort: every lookup degrades to an absent value rather than erroring.
// A payload is only handed to this package after signature verification.
package payload

import (
	"encoding/json"
	"fmt"
)

// Event is the decoded, signature-validated Stripe event envelope.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object Object `json:"object"`
	} `json:"data"`
}

// Decode parses a verified raw event body.
func Decode(raw []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("decode provider event: %w", err)
	}
	return &ev, nil
}

// DataObject returns the event's data.object, never nil.
func (e *Event) DataObject() Object {
	if e.Data.Object == nil {
		return Object{}
	}
	return e.Data.Object
}
