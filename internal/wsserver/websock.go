package wsserver

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

// ErrSockCongestion indicates too many waiters on the socket for a given op.
var ErrSockCongestion = errors.New("sock op failed due to congestion")

const (
	readDeadline     = time.Second
	writeDeadline    = time.Second
	writeWait        = 1 * time.Second
	closeGracePeriod = 10 * time.Second
)

// websock serializes reads and writes to a websocket, whose underlying
// library requires at most one concurrent reader and one concurrent
// writer. This service needs serialization in both directions, which is
// why Read and Write are both exposed here.
type websock struct {
	readSem  chan struct{}
	writeSem chan struct{}
	ws       *websocket.Conn
}

func newWebSocket(ws *websocket.Conn) *websock {
	return &websock{
		readSem:  make(chan struct{}, 1),
		writeSem: make(chan struct{}, 1),
		ws:       ws,
	}
}

// Conn returns the underlying websocket. Only safe to use non-concurrently
// for setup, e.g. registering handlers.
func (sock *websock) Conn() *websocket.Conn {
	return sock.ws
}

// Close gracefully closes the websocket. Call only once no further
// readers/writers are active. The underlying TCP connection is torn down
// closeGracePeriod later, on its own goroutine, giving the peer time to
// receive the close frame; unlike a single-purpose publish client, this
// server holds many duplex connections at once, so Close itself must
// return immediately rather than block the caller for the grace period.
func (sock *websock) Close() {
	sock.readSem <- struct{}{}
	sock.writeSem <- struct{}{}

	_ = sock.ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = sock.ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	go func() {
		time.Sleep(closeGracePeriod)
		sock.ws.Close()
	}()
}

// Read serializes read operations on the internal websocket.
func (sock *websock) Read(ctx context.Context, readFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.readSem <- struct{}{}:
		defer func() { <-sock.readSem }()
		return readFn(sock.ws)
	case <-time.After(readDeadline):
		return ErrSockCongestion
	}
}

// Write serializes write operations to the websocket.
func (sock *websock) Write(ctx context.Context, writeFn func(*websocket.Conn) error) error {
	select {
	case <-ctx.Done():
		return nil
	case sock.writeSem <- struct{}{}:
		defer func() { <-sock.writeSem }()
		return writeFn(sock.ws)
	case <-time.After(writeDeadline):
		return ErrSockCongestion
	}
}

func isUnexpectedClose(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}
