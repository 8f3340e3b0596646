package payload

import (
	"time"

	"github.com/paylens/ingestd/internal/token"
)

// Constant origin tags of every normalized event this service emits.
const (
	Provider = "stripe"
	Source   = "webhook"
)

// NormalizedEvent is the provider-agnostic record handed to downstream
// reconciliation consumers. The pii section carries only deterministic
// one-way tokens; raw PII never appears in it. Absent fields marshal as
// null so consumers see a stable shape across event types.
type NormalizedEvent struct {
	Provider    string      `json:"provider"`
	Source      string      `json:"source"`
	EventID     string      `json:"event_id"`
	EventType   string      `json:"event_type"`
	ReceivedAt  int64       `json:"received_at"`
	Transaction Transaction `json:"transaction"`
	PII         PII         `json:"pii"`
	Refs        Refs        `json:"refs"`
}

// Transaction carries the money movement fields of the event.
type Transaction struct {
	TransactionID *string `json:"transaction_id"`
	AmountMinor   int64   `json:"amount_minor"`
	Currency      *string `json:"currency"`
	Status        *string `json:"status"`
	Created       *int64  `json:"created"`
}

// PII holds tokenized identifiers only.
type PII struct {
	EmailToken      *string `json:"email_token"`
	CustomerIDToken *string `json:"customer_id_token"`
}

// Refs holds non-sensitive cross-reference ids kept in the clear for
// reconciliation joins.
type Refs struct {
	PaymentIntentID *string `json:"payment_intent_id"`
	ChargeID        *string `json:"charge_id"`
	CustomerID      *string `json:"customer_id"`
}

// Normalize rewrites a verified provider event into the internal shape.
// Pure: the same event and receivedAt always produce the same record, which
// keeps provider redelivery safe to reprocess.
func Normalize(e *Event, receivedAt time.Time) *NormalizedEvent {
	obj := e.DataObject()
	customerID := obj.CustomerID()

	return &NormalizedEvent{
		Provider:   Provider,
		Source:     Source,
		EventID:    e.ID,
		EventType:  e.Type,
		ReceivedAt: receivedAt.Unix(),
		Transaction: Transaction{
			TransactionID: obj.TransactionID(),
			AmountMinor:   obj.AmountMinor(),
			Currency:      obj.Currency(),
			Status:        obj.Status(),
			Created:       obj.Created(),
		},
		PII: PII{
			EmailToken:      token.FromPtr(obj.ReceiptEmail()),
			CustomerIDToken: token.FromPtr(customerID),
		},
		Refs: Refs{
			PaymentIntentID: obj.PaymentIntentID(),
			ChargeID:        obj.ChargeID(),
			CustomerID:      customerID,
		},
	}
}
