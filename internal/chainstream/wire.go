package chainstream

// subscribeRequest is the JSON-RPC frame sent to the node to open an event
// subscription for one query.
type subscribeRequest struct {
	JsonRPC string          `json:"jsonrpc"` // JSON-RPC protocol version (always "2.0")
	ID      uint64          `json:"id"`      // Strictly increasing request identifier
	Method  string          `json:"method"`  // Always "subscribe"
	Params  subscribeParams `json:"params"`  // Query selecting the events to stream
}

// subscribeParams carries the node-side event query, e.g.
// "tm.event='Tx' AND transfer.amount EXISTS".
type subscribeParams struct {
	Query string `json:"query"`
}

func newSubscribeRequest(query string, id uint64) subscribeRequest {
	return subscribeRequest{
		JsonRPC: "2.0",
		ID:      id,
		Method:  "subscribe",
		Params:  subscribeParams{Query: query},
	}
}
