package txextract

import "strings"

// scanMessages is the last-resort strategy for payloads that only embed the
// decoded transaction messages. Message objects are discriminated by their
// "@type" field: a wasm contract execution yields one candidate per attached
// fund with the contract as recipient, and a bank send yields one candidate
// per coin. Both reuse the hash resolved for the whole payload.
func scanMessages(payload any) []candidate {
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
		msgType := textOf(obj["@type"])
		switch {
		case strings.Contains(msgType, "MsgExecuteContract"):
			sender := textOf(obj["sender"])
			contract := textOf(obj["contract"])
			for _, coin := range coinSlice(obj["funds"]) {
				out = append(out, candidate{
					sender:    sender,
					recipient: contract,
					amount:    coin.amount,
					denom:     coin.denom,
					txHash:    txHash,
				})
			}
		case strings.Contains(msgType, "MsgSend"):
			from := textOf(obj["from_address"])
			to := textOf(obj["to_address"])
			for _, coin := range coinSlice(obj["amount"]) {
				out = append(out, candidate{
					sender:    from,
					recipient: to,
					amount:    coin.amount,
					denom:     coin.denom,
					txHash:    txHash,
				})
			}
		}
	})
	return out
}

type coin struct {
	amount string
	denom  string
}

// coinSlice decodes an array of {"denom": ..., "amount": ...} objects,
// dropping members that lack either field.
func coinSlice(v any) []coin {
	items, ok := asSlice(v)
	if !ok {
		return nil
	}

	out := make([]coin, 0, len(items))
	for _, item := range items {
		obj, ok := asMap(item)
		if !ok {
			continue
		}

		c := coin{
			amount: amountTextOf(obj["amount"]),
			denom:  textOf(obj["denom"]),
		}
		if c.amount != "" && c.denom != "" {
			out = append(out, c)
		}
	}
	return out
}
