package chainstream

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn is the subset of the underlying WebSocket connection the service
// drives, so tests can substitute a scripted connection for a live socket.
type wsConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// dialFunc establishes one WebSocket connection to the given URL.
type dialFunc func(ctx context.Context, socketURL string) (wsConn, error)

func dialWebSocket(ctx context.Context, socketURL string) (wsConn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: defaultHandshakeTimeout}

	conn, _, err := dialer.DialContext(ctx, socketURL, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
