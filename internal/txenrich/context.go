package txenrich

import "context"

// TxContext carries the contract execution details attached to a transaction,
// taken from the first wasm event the chain recorded for it.
type TxContext struct {
	EventType       string
	ContractAddress string
	Action          string
	OfferAsset      string
	AskAsset        string
	OfferAmount     string
	ReturnAmount    string
}

// ContextFetcher retrieves the execution context of a transaction from the
// chain. Implementations return (nil, nil) when the transaction exists but
// carries no wasm event, and an error only for transport or decoding
// failures.
type ContextFetcher interface {
	FetchTxContext(ctx context.Context, txHash string) (*TxContext, error)
}
