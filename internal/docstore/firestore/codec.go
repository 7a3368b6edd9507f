package firestore

import (
	"time"

	firestore "google.golang.org/api/firestore/v1"

	"santi/internal/core"
	"santi/internal/docstore"
)

// This codec is the parse/validate boundary between raw Firestore values
// and the typed entities of the core. Decoding is total: a missing or
// wrong-typed field becomes its zero value instead of leaking partially
// typed data into the aggregators.

func encodePatch(p docstore.Patch) (map[string]firestore.Value, []string) {
	fields := make(map[string]firestore.Value)
	var paths []string

	if p.Profile != nil {
		fields["profile"] = mapValue(encodeProfile(*p.Profile))
		paths = append(paths, "profile")
	}
	if p.Transactions != nil {
		vals := make([]*firestore.Value, 0, len(*p.Transactions))
		for _, tx := range *p.Transactions {
			vals = append(vals, ptr(mapValue(encodePlay(tx))))
		}
		fields["transactions"] = arrayValue(vals)
		paths = append(paths, "transactions")
	}
	if p.Ledger != nil {
		vals := make([]*firestore.Value, 0, len(*p.Ledger))
		for _, e := range *p.Ledger {
			vals = append(vals, ptr(mapValue(encodeEntry(e))))
		}
		fields["manual"] = mapValue(map[string]firestore.Value{"ledger": arrayValue(vals)})
		paths = append(paths, "manual")
	}

	return fields, paths
}

func encodeProfile(p docstore.Profile) map[string]firestore.Value {
	fields := map[string]firestore.Value{
		"uid":         stringValue(p.UID),
		"email":       stringValue(p.Email),
		"phoneNumber": stringValue(p.PhoneNumber),
	}
	if !p.CreatedAt.IsZero() {
		fields["createdAt"] = timestampValue(p.CreatedAt)
	}
	if !p.LastLoginAt.IsZero() {
		fields["lastLoginAt"] = timestampValue(p.LastLoginAt)
	}
	return fields
}

func encodePlay(tx core.ManualTransaction) map[string]firestore.Value {
	return map[string]firestore.Value{
		"id":     integerValue(tx.ID),
		"label":  stringValue(tx.Label),
		"amount": doubleValue(tx.Amount),
		"type":   stringValue(string(tx.Type)),
	}
}

func encodeEntry(e core.LedgerEntry) map[string]firestore.Value {
	return map[string]firestore.Value{
		"id":          stringValue(e.ID),
		"date":        stringValue(e.Date),
		"label":       stringValue(e.Label),
		"amount":      doubleValue(e.Amount),
		"type":        stringValue(string(e.Type)),
		"fromAccount": stringValue(e.FromAccount),
		"toAccount":   stringValue(e.ToAccount),
		"platform":    stringValue(e.Platform),
		"tags":        stringValue(e.Tags),
		"note":        stringValue(e.Note),
		"createdAt":   integerValue(e.CreatedAt),
	}
}

func decodeDocument(doc *firestore.Document) docstore.UserDocument {
	var out docstore.UserDocument
	if doc == nil {
		return out
	}

	out.Profile = decodeProfile(mapFields(doc.Fields["profile"]))

	for _, v := range arrayValues(doc.Fields["transactions"]) {
		out.Transactions = append(out.Transactions, decodePlay(mapFields(deref(v))))
	}

	manual := mapFields(doc.Fields["manual"])
	for _, v := range arrayValues(manual["ledger"]) {
		out.Manual.Ledger = append(out.Manual.Ledger, decodeEntry(mapFields(deref(v))))
	}

	return out
}

func decodeProfile(fields map[string]firestore.Value) docstore.Profile {
	return docstore.Profile{
		UID:         str(fields["uid"]),
		Email:       str(fields["email"]),
		PhoneNumber: str(fields["phoneNumber"]),
		CreatedAt:   timestamp(fields["createdAt"]),
		LastLoginAt: timestamp(fields["lastLoginAt"]),
	}
}

func decodePlay(fields map[string]firestore.Value) core.ManualTransaction {
	return core.ManualTransaction{
		ID:     integer(fields["id"]),
		Label:  str(fields["label"]),
		Amount: number(fields["amount"]),
		Type:   core.PlayType(str(fields["type"])),
	}
}

func decodeEntry(fields map[string]firestore.Value) core.LedgerEntry {
	return core.LedgerEntry{
		ID:          str(fields["id"]),
		Date:        str(fields["date"]),
		Label:       str(fields["label"]),
		Amount:      number(fields["amount"]),
		Type:        core.EntryType(str(fields["type"])),
		FromAccount: str(fields["fromAccount"]),
		ToAccount:   str(fields["toAccount"]),
		Platform:    str(fields["platform"]),
		Tags:        str(fields["tags"]),
		Note:        str(fields["note"]),
		CreatedAt:   integer(fields["createdAt"]),
	}
}

// Value constructors. The generated struct tags all carry omitempty, so
// zero values must be forced onto the wire: a Value that marshals to {}
// has no value_type and the commit API rejects it.

func stringValue(s string) firestore.Value {
	return firestore.Value{StringValue: s, ForceSendFields: []string{"StringValue"}}
}

func doubleValue(f float64) firestore.Value {
	return firestore.Value{DoubleValue: f, ForceSendFields: []string{"DoubleValue"}}
}

func integerValue(i int64) firestore.Value {
	return firestore.Value{IntegerValue: i, ForceSendFields: []string{"IntegerValue"}}
}

func timestampValue(t time.Time) firestore.Value {
	return firestore.Value{TimestampValue: t.UTC().Format(time.RFC3339)}
}

func mapValue(fields map[string]firestore.Value) firestore.Value {
	return firestore.Value{MapValue: &firestore.MapValue{Fields: fields}}
}

func arrayValue(vals []*firestore.Value) firestore.Value {
	return firestore.Value{ArrayValue: &firestore.ArrayValue{Values: vals}}
}

func ptr(v firestore.Value) *firestore.Value { return &v }

// Value accessors, zero-defaulting on absence or type mismatch.

func deref(v *firestore.Value) firestore.Value {
	if v == nil {
		return firestore.Value{}
	}
	return *v
}

func str(v firestore.Value) string { return v.StringValue }

// number accepts both Firestore encodings of a numeric field; writes from
// other clients may store whole amounts as integers.
func number(v firestore.Value) float64 {
	if v.DoubleValue != 0 {
		return v.DoubleValue
	}
	return float64(v.IntegerValue)
}

func integer(v firestore.Value) int64 {
	if v.IntegerValue != 0 {
		return v.IntegerValue
	}
	return int64(v.DoubleValue)
}

func timestamp(v firestore.Value) time.Time {
	if v.TimestampValue == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v.TimestampValue)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mapFields(v firestore.Value) map[string]firestore.Value {
	if v.MapValue == nil {
		return nil
	}
	return v.MapValue.Fields
}

func arrayValues(v firestore.Value) []*firestore.Value {
	if v.ArrayValue == nil {
		return nil
	}
	return v.ArrayValue.Values
}
