package txextract

import (
	"encoding/base64"
	"regexp"
)

// coinPattern matches one "<amount><denom>" coin inside an amount string.
// Amount strings may concatenate several coins, so matching is repeated and
// every match becomes its own candidate.
var coinPattern = regexp.MustCompile(`(\d+)([a-z0-9/._-]+)`)

// base64Alphabet matches strings that could plausibly be standard base64,
// with up to two padding characters at the end.
var base64Alphabet = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// scanTaggedEvents handles the verbose subscription encoding where the
// payload carries typed event objects:
//
//	{"type": "transfer", "attributes": [{"key": "sender", "value": "..."}, ...]}
//
// A single transaction hash is resolved for the whole payload first; without
// one the strategy yields nothing. Attribute keys and values may arrive
// base64-encoded depending on node version, so both pass through a heuristic
// decoder. A transfer event may stack several sender/recipient/amount runs,
// zipped by index like the mapped encoding.
func scanTaggedEvents(payload any) []candidate {
	root, ok := asMap(payload)
	if !ok {
		return nil
	}

	txHash := findTxHash(root)
	if txHash == "" {
		return nil
	}

	var out []candidate
	walkJSON(root, func(obj map[string]any) {
		if textOf(obj["type"]) != "transfer" {
			return
		}
		attributes, ok := asSlice(obj["attributes"])
		if !ok {
			return
		}

		var senders, recipients, amounts []string
		for _, item := range attributes {
			attr, ok := asMap(item)
			if !ok {
				continue
			}

			key := decodeBase64IfPrintable(textOf(attr["key"]))
			value := decodeBase64IfPrintable(textOf(attr["value"]))
			switch key {
			case "sender":
				senders = append(senders, value)
			case "recipient":
				recipients = append(recipients, value)
			case "amount":
				amounts = append(amounts, value)
			}
		}

		for i, amount := range amounts {
			for _, coin := range coinPattern.FindAllStringSubmatch(amount, -1) {
				out = append(out, candidate{
					sender:    indexOrFirst(senders, i),
					recipient: indexOrFirst(recipients, i),
					amount:    coin[1],
					denom:     coin[2],
					txHash:    txHash,
				})
			}
		}
	})
	return out
}

// findTxHash resolves the single transaction hash of a verbose payload,
// preferring the TxResult location, then the subscription events map, then a
// bare top-level field.
func findTxHash(root map[string]any) string {
	if hash := textOf(valueAtPath(root, "result", "data", "value", "TxResult", "result", "hash")); hash != "" {
		return hash
	}

	if events, ok := asMap(valueAtPath(root, "result", "events")); ok {
		for _, key := range []string{"tx.hash", "tx.hashes"} {
			if hashes := stringsOf(events[key]); len(hashes) > 0 {
				return hashes[0]
			}
		}
	}

	return textOf(root["txhash"])
}

// decodeBase64IfPrintable attempts to undo base64 encoding on an attribute
// string. The encoding is not announced by the node, so this is a heuristic:
// decode only when the input is valid base64 with aligned length, and accept
// the result only when it is printable ASCII. A plain address that happens to
// be valid base64 but decodes to binary garbage stays untouched.
func decodeBase64IfPrintable(s string) string {
	if s == "" || len(s)%4 != 0 || !base64Alphabet.MatchString(s) {
		return s
	}

	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s
	}

	for _, b := range decoded {
		if b < ' ' || b > '~' {
			return s
		}
	}
	return string(decoded)
}
