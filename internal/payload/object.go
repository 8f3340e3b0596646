package payload

// Object is the untyped data.object mapping of a provider event. Its shape
// varies by event type (payment_intent, charge, checkout.session, ...), so
// each derived field is resolved by an explicit accessor that encapsulates
// the fallback chain for that field.
type Object map[string]any

// stringField returns the named field when it holds a non-empty string.
func (o Object) stringField(key string) *string {
	v, ok := o[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// intField returns the named field when it holds a JSON number.
// encoding/json decodes numbers into float64; Stripe amounts and timestamps
// are integral minor units / epoch seconds, so the truncation is exact.
func (o Object) intField(key string) *int64 {
	v, ok := o[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		i := int64(n)
		return &i
	case int64:
		return &n
	case int:
		i := int64(n)
		return &i
	}
	return nil
}

// child returns a nested object field, or nil when absent or of another type.
func (o Object) child(key string) Object {
	v, ok := o[key]
	if !ok {
		return nil
	}
	switch m := v.(type) {
	case map[string]any:
		return Object(m)
	case Object:
		return m
	}
	return nil
}

// TransactionID is the object's own id (pi_..., ch_..., cs_...).
func (o Object) TransactionID() *string {
	return o.stringField("id")
}

// CustomerID is the customer reference carried by the object.
func (o Object) CustomerID() *string {
	return o.stringField("customer")
}

// Currency is the ISO currency code, passed through unchanged.
func (o Object) Currency() *string {
	return o.stringField("currency")
}

// Status is the provider-side status, passed through unchanged.
func (o Object) Status() *string {
	return o.stringField("status")
}

// Created is the provider-supplied creation time in epoch seconds.
func (o Object) Created() *int64 {
	return o.intField("created")
}

// AmountMinor resolves the transaction amount in minor currency units:
// the first non-zero of amount_received, amount, amount_total, else 0.
func (o Object) AmountMinor() int64 {
	for _, key := range []string{"amount_received", "amount", "amount_total"} {
		if v := o.intField(key); v != nil && *v != 0 {
			return *v
		}
	}
	return 0
}

// PaymentIntentID resolves the payment intent reference. A payment_intent
// object refers to itself by id; any other object type cross-references via
// its payment_intent field.
func (o Object) PaymentIntentID() *string {
	if t := o.stringField("object"); t != nil && *t == "payment_intent" {
		return o.stringField("id")
	}
	return o.stringField("payment_intent")
}

// ChargeID resolves the charge reference: charge, falling back to
// latest_charge (payment_intent objects carry the latter).
func (o Object) ChargeID() *string {
	if v := o.stringField("charge"); v != nil {
		return v
	}
	return o.stringField("latest_charge")
}

// ReceiptEmail resolves the payer email: receipt_email, then customer_email,
// then the email nested in customer_details (checkout sessions).
func (o Object) ReceiptEmail() *string {
	if v := o.stringField("receipt_email"); v != nil {
		return v
	}
	if v := o.stringField("customer_email"); v != nil {
		return v
	}
	if details := o.child("customer_details"); details != nil {
		return details.stringField("email")
	}
	return nil
}
