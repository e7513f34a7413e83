package txextract

import (
	"encoding/json"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Transfer is one validated on-chain transfer. Amount is expressed in base
// denomination units and is always strictly positive.
type Transfer struct {
	Sender    string
	Recipient string
	Amount    *big.Int
	Denom     string
	TxHash    string
}

// candidate is an unvalidated transfer as pulled out of a payload. Amount is
// kept as text until validation, since payloads mix bare integers, suffixed
// strings ("50000000uzig"), and JSON numbers.
type candidate struct {
	sender    string
	recipient string
	amount    string
	denom     string
	txHash    string
}

// normalize validates a candidate and converts it into a Transfer. All four
// string fields must be non-empty after trimming, the denom is lowercased,
// and the amount must resolve to a strictly positive integer, either as bare
// digits or as digits carrying the candidate's own denom as suffix.
func (c candidate) normalize() (Transfer, bool) {
	sender := strings.TrimSpace(c.sender)
	recipient := strings.TrimSpace(c.recipient)
	denom := strings.ToLower(strings.TrimSpace(c.denom))
	txHash := strings.TrimSpace(c.txHash)
	amountText := strings.TrimSpace(c.amount)

	if sender == "" || recipient == "" || denom == "" || txHash == "" || amountText == "" {
		return Transfer{}, false
	}

	if !isDigits(amountText) {
		trimmed, found := strings.CutSuffix(strings.ToLower(amountText), denom)
		if !found || !isDigits(trimmed) {
			return Transfer{}, false
		}
		amountText = trimmed
	}

	amount, ok := new(big.Int).SetString(amountText, 10)
	if !ok || amount.Sign() <= 0 {
		return Transfer{}, false
	}

	return Transfer{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Denom:     denom,
		TxHash:    txHash,
	}, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// textOf returns the string form of a JSON scalar that may legitimately carry
// an address, hash, or denom. Only plain strings qualify.
func textOf(v any) string {
	s, _ := v.(string)
	return s
}

// amountTextOf returns the string form of a JSON scalar that may carry an
// amount. Amounts appear as strings, as json.Number when the payload was
// decoded with UseNumber, or as float64 otherwise.
func amountTextOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// stringsOf flattens a value holding either a single string or an array of
// strings into a slice, dropping non-string members.
func stringsOf(v any) []string {
	if s := textOf(v); s != "" {
		return []string{s}
	}

	items, ok := asSlice(v)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := textOf(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// indexOrFirst zips parallel event arrays: a missing index falls back to the
// first element, and an empty array yields "".
func indexOrFirst(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	if len(list) > 0 {
		return list[0]
	}
	return ""
}

// walkJSON traverses a decoded payload depth-first, visiting every object
// before descending into it. Map keys are visited in sorted order so
// extraction is deterministic regardless of decoder internals.
func walkJSON(v any, visit func(map[string]any)) {
	switch t := v.(type) {
	case map[string]any:
		visit(t)

		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			walkJSON(t[k], visit)
		}
	case []any:
		for _, item := range t {
			walkJSON(item, visit)
		}
	}
}

// valueAtPath descends through nested objects following the given keys,
// returning nil as soon as a step is missing or not an object.
func valueAtPath(m map[string]any, path ...string) any {
	var current any = m
	for _, key := range path {
		obj, ok := asMap(current)
		if !ok {
			return nil
		}
		current = obj[key]
	}
	return current
}
