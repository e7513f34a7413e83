// Package txextract normalizes the JSON payloads a Tendermint-family node
// pushes over its event stream into canonical transfer records. Nodes emit
// transfers in several incompatible shapes depending on version and query, so
// extraction runs an ordered cascade of strategies over the decoded payload
// and the first one to produce candidates wins.
//
// Payloads should be decoded with json.Decoder.UseNumber so large amounts
// survive the trip through the decoder intact.
package txextract

import "regexp"

// strategy pulls raw transfer candidates out of a decoded payload. Strategies
// are pure: no strategy mutates the payload or retains it.
type strategy func(payload any) []candidate

// strategies in cascade order: the direct object scan handles bespoke wrapper
// shapes, the mapped and tagged forms handle the two subscription event
// encodings, and the message body scan is the last resort for payloads that
// only carry the decoded transaction.
var strategies = []strategy{
	scanDirect,
	scanMappedEvents,
	scanTaggedEvents,
	scanMessages,
}

// mappedAmountPattern splits a mapped-event amount ("50000000uzig") into its
// numeric and denom parts.
var mappedAmountPattern = regexp.MustCompile(`^(\d+)([a-z0-9]+)$`)

// Extract converts one decoded payload into validated transfers. It never
// panics: unrecognized or malformed payloads yield an empty slice. Once a
// strategy produces candidates the cascade stops, even if every candidate is
// then discarded by validation.
func Extract(payload any) []Transfer {
	for _, extract := range strategies {
		candidates := extract(payload)
		if len(candidates) == 0 {
			continue
		}

		transfers := make([]Transfer, 0, len(candidates))
		for _, c := range candidates {
			if transfer, ok := c.normalize(); ok {
				transfers = append(transfers, transfer)
			}
		}
		return transfers
	}

	return nil
}

// scanDirect recursively collects every object carrying the five transfer
// fields as direct members, tolerating any enclosing wrapper shape.
func scanDirect(payload any) []candidate {
	var out []candidate
	walkJSON(payload, func(obj map[string]any) {
		c := candidate{
			sender:    textOf(obj["sender"]),
			recipient: textOf(obj["recipient"]),
			amount:    amountTextOf(obj["amount"]),
			denom:     textOf(obj["denom"]),
			txHash:    textOf(obj["txhash"]),
		}
		if c.sender != "" && c.recipient != "" && c.amount != "" && c.denom != "" && c.txHash != "" {
			out = append(out, c)
		}
	})
	return out
}

// scanMappedEvents handles the compact subscription encoding where
// result.events maps composite keys to parallel value arrays:
//
//	{"result": {"events": {"transfer.sender": [...], "transfer.amount": [...]}, "tx.hash": [...]}}
//
// Arrays are zipped by index, with missing indices falling back to the first
// element. Amounts carry their denom as a suffix.
func scanMappedEvents(payload any) []candidate {
	root, ok := asMap(payload)
	if !ok {
		return nil
	}
	result, ok := asMap(root["result"])
	if !ok {
		return nil
	}
	events, ok := asMap(result["events"])
	if !ok {
		return nil
	}

	amounts := stringsOf(events["transfer.amount"])
	if len(amounts) == 0 {
		return nil
	}

	senders := stringsOf(events["transfer.sender"])
	recipients := stringsOf(events["transfer.recipient"])
	hashes := mappedTxHashes(events, result, root)

	out := make([]candidate, 0, len(amounts))
	for i, amount := range amounts {
		parts := mappedAmountPattern.FindStringSubmatch(amount)
		if parts == nil {
			continue
		}

		out = append(out, candidate{
			sender:    indexOrFirst(senders, i),
			recipient: indexOrFirst(recipients, i),
			amount:    parts[1],
			denom:     parts[2],
			txHash:    indexOrFirst(hashes, i),
		})
	}
	return out
}

// mappedTxHashes resolves the transaction hash arrays for the mapped
// encoding. Depending on node version the hashes live under "tx.hash" or
// "tx.hashes", inside the events map, beside it in the result object, or at
// the payload root.
func mappedTxHashes(events, result, root map[string]any) []string {
	for _, scope := range []map[string]any{events, result, root} {
		for _, key := range []string{"tx.hash", "tx.hashes"} {
			if hashes := stringsOf(scope[key]); len(hashes) > 0 {
				return hashes
			}
		}
	}
	return nil
}
