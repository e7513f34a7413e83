package cosmoslcd

import "github.com/Abduttayyeb07/Monitor/internal/txenrich"

// eventAttributeResponse represents one key/value attribute of a transaction
// event as returned by the LCD transaction service.
type eventAttributeResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// eventResponse represents a typed transaction event.
type eventResponse struct {
	Type       string                   `json:"type"`
	Attributes []eventAttributeResponse `json:"attributes"`
}

// logResponse represents one message execution log with its events.
type logResponse struct {
	Events []eventResponse `json:"events"`
}

// txLookupResponse represents the relevant portion of the LCD reply for
// GET /cosmos/tx/v1beta1/txs/{hash}.
type txLookupResponse struct {
	TxResponse struct {
		TxHash string          `json:"txhash"`
		Logs   []logResponse   `json:"logs"`
		Events []eventResponse `json:"events"`
	} `json:"tx_response"`
}

// firstWasmEvent returns the first event of type "wasm", scanning the
// per-message logs before the flat top-level event list. Newer chain versions
// leave logs empty and only populate the top-level list.
func (r txLookupResponse) firstWasmEvent() (eventResponse, bool) {
	for _, log := range r.TxResponse.Logs {
		for _, event := range log.Events {
			if event.Type == "wasm" {
				return event, true
			}
		}
	}

	for _, event := range r.TxResponse.Events {
		if event.Type == "wasm" {
			return event, true
		}
	}

	return eventResponse{}, false
}

// toTxContext maps a wasm event into the domain representation. When an
// attribute key repeats, the first occurrence wins.
func (e eventResponse) toTxContext() *txenrich.TxContext {
	attrs := make(map[string]string, len(e.Attributes))
	for _, attr := range e.Attributes {
		if _, ok := attrs[attr.Key]; !ok {
			attrs[attr.Key] = attr.Value
		}
	}

	return &txenrich.TxContext{
		EventType:       e.Type,
		ContractAddress: attrs["_contract_address"],
		Action:          attrs["action"],
		OfferAsset:      attrs["offer_asset"],
		AskAsset:        attrs["ask_asset"],
		OfferAmount:     attrs["offer_amount"],
		ReturnAmount:    attrs["return_amount"],
	}
}
