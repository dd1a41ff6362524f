package ws

import "errors"

// ErrConnectionClosed is returned when writing to an already closed connection.
var ErrConnectionClosed = errors.New("websocket connection closed")
