package payload

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	raw := []byte(`{"id":"evt_1","type":"charge.succeeded","data":{"object":{"id":"ch_1","amount":500}}}`)

	ev, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ev.ID != "evt_1" {
		t.Errorf("ID = %s, want evt_1", ev.ID)
	}
	if ev.Type != "charge.succeeded" {
		t.Errorf("Type = %s, want charge.succeeded", ev.Type)
	}
	if got := ev.DataObject().AmountMinor(); got != 500 {
		t.Errorf("AmountMinor = %d, want 500", got)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"id":`)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestDecodeMissingDataObject(t *testing.T) {
	ev, err := Decode([]byte(`{"id":"evt_2","type":"ping"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	obj := ev.DataObject()
	if obj == nil {
		t.Fatal("DataObject() must never be nil")
	}
	if got := obj.AmountMinor(); got != 0 {
		t.Errorf("AmountMinor = %d, want 0", got)
	}
}

func TestNormalizeCheckoutSession(t *testing.T) {
	raw := []byte(`{
		"id": "evt_42",
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_1",
				"object": "checkout.session",
				"amount_total": 2500,
				"currency": "usd",
				"customer": "cus_1",
				"customer_details": {"email": "A@B.com"}
			}
		}
	}`)

	ev, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	receivedAt := time.Unix(1700000100, 0)
	n := Normalize(ev, receivedAt)

	if n.Provider != "stripe" || n.Source != "webhook" {
		t.Errorf("origin tags = %s/%s, want stripe/webhook", n.Provider, n.Source)
	}
	if n.EventID != "evt_42" || n.EventType != "checkout.session.completed" {
		t.Errorf("event identity = %s/%s", n.EventID, n.EventType)
	}
	if n.ReceivedAt != 1700000100 {
		t.Errorf("ReceivedAt = %d, want 1700000100", n.ReceivedAt)
	}
	if n.Transaction.AmountMinor != 2500 {
		t.Errorf("AmountMinor = %d, want 2500", n.Transaction.AmountMinor)
	}
	if n.Transaction.Currency == nil || *n.Transaction.Currency != "usd" {
		t.Errorf("Currency = %v, want usd", n.Transaction.Currency)
	}
	if n.Refs.CustomerID == nil || *n.Refs.CustomerID != "cus_1" {
		t.Errorf("Refs.CustomerID = %v, want cus_1", n.Refs.CustomerID)
	}

	sum := sha256.Sum256([]byte("a@b.com"))
	wantToken := hex.EncodeToString(sum[:])
	if n.PII.EmailToken == nil || *n.PII.EmailToken != wantToken {
		t.Errorf("EmailToken = %v, want sha256 of normalized email", n.PII.EmailToken)
	}
	if n.PII.CustomerIDToken == nil {
		t.Error("CustomerIDToken should be set when customer is present")
	}
}

func TestNormalizeNeverCarriesRawPII(t *testing.T) {
	raw := []byte(`{
		"id": "evt_7",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_1",
				"object": "payment_intent",
				"amount_received": 1000,
				"currency": "eur",
				"customer": "cus_secret",
				"receipt_email": "Payer@Example.com",
				"latest_charge": "ch_1"
			}
		}
	}`)

	ev, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	n := Normalize(ev, time.Unix(1700000200, 0))

	out, err := json.Marshal(n.PII)
	if err != nil {
		t.Fatalf("marshal pii: %v", err)
	}
	for _, leak := range []string{"Payer@Example.com", "payer@example.com"} {
		if containsBytes(out, leak) {
			t.Errorf("pii section contains raw value %q: %s", leak, out)
		}
	}

	// Non-sensitive refs stay in the clear for reconciliation joins.
	if n.Refs.PaymentIntentID == nil || *n.Refs.PaymentIntentID != "pi_1" {
		t.Errorf("PaymentIntentID = %v, want pi_1 (self reference)", n.Refs.PaymentIntentID)
	}
	if n.Refs.ChargeID == nil || *n.Refs.ChargeID != "ch_1" {
		t.Errorf("ChargeID = %v, want ch_1", n.Refs.ChargeID)
	}
}

func TestNormalizeEmptyObject(t *testing.T) {
	ev, err := Decode([]byte(`{"id":"evt_8","type":"ping","data":{}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	n := Normalize(ev, time.Unix(1700000300, 0))

	if n.Transaction.AmountMinor != 0 {
		t.Errorf("AmountMinor = %d, want 0", n.Transaction.AmountMinor)
	}
	if n.Transaction.TransactionID != nil {
		t.Errorf("TransactionID = %v, want nil", n.Transaction.TransactionID)
	}
	if n.PII.EmailToken != nil || n.PII.CustomerIDToken != nil {
		t.Error("pii tokens should be absent for empty object")
	}

	// Absent fields marshal as null, keeping the output shape stable.
	out, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !containsBytes(out, `"transaction_id":null`) {
		t.Errorf("expected explicit null transaction_id, got %s", out)
	}
}

func containsBytes(b []byte, sub string) bool {
	return bytes.Contains(b, []byte(sub))
}
