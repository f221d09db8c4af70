// Package wsserver implements the duplex websocket transport: each
// accepted connection becomes a subscriber of the Controller FSM's status
// stream and a source of RequestMessages, over a bidirectional channel
// with ping/pong liveness and serialized reads/writes.
package wsserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ssgier/momonc-service/internal/domain"
	"github.com/ssgier/momonc-service/internal/fsm"
	"github.com/ssgier/momonc-service/internal/objfunc"
	"github.com/ssgier/momonc-service/internal/param"
)

const (
	pingResolution = 200 * time.Millisecond
	pongWait       = pingResolution * 4
	maxMessageSize = 8192

	// statusBufferSize sizes each connection's inbound status-message
	// buffer; when full, the FSM treats the next send as a failed delivery
	// and clears the subscriber slot (see fsm.Controller.sendToSubscriber).
	statusBufferSize = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// client is one accepted websocket connection, subscribed to controller's
// status stream for its lifetime.
type client struct {
	controller *fsm.Controller
	ws         *websock
	rootCtx    context.Context
	status     chan domain.StatusMessage
}

// newClient upgrades w/r to a websocket and returns a client ready to Sync.
func newClient(controller *fsm.Controller, w http.ResponseWriter, r *http.Request) (*client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	return &client{
		controller: controller,
		ws:         newWebSocket(conn),
		rootCtx:    r.Context(),
		status:     make(chan domain.StatusMessage, statusBufferSize),
	}, nil
}

// Sync subscribes the client to the controller and runs its read, ping, and
// publish loops concurrently until one of them errors or the connection's
// root context is done.
func (cli *client) Sync() error {
	cli.controller.Send(cli.rootCtx, fsm.NewSubscriberEvent{Sink: cli.status})

	group, groupCtx := errgroup.WithContext(cli.rootCtx)
	group.Go(func() error { return cli.readMessages(groupCtx) })
	group.Go(func() error { return cli.pingPong(groupCtx) })
	group.Go(func() error { return cli.publish(groupCtx) })

	err := group.Wait()
	cli.ws.Close()
	return err
}

// readMessages decodes each incoming text frame as a RequestMessage and
// translates it into a Controller event: reading the spec file and
// validating the algorithm config happen here, at ingress, so the FSM
// event loop never blocks on file I/O.
func (cli *client) readMessages(ctx context.Context) error {
	cli.ws.Conn().SetReadLimit(maxMessageSize)

	for {
		var raw []byte
		err := cli.ws.Read(ctx, func(ws *websocket.Conn) (readErr error) {
			_, raw, readErr = ws.ReadMessage()
			return
		})
		if err != nil {
			if isUnexpectedClose(err) {
				return fmt.Errorf("read failed: %w", err)
			}
			return nil
		}
		if raw == nil {
			continue
		}

		var msg domain.RequestMessage
		if err := sonic.Unmarshal(raw, &msg); err != nil {
			log.Warn().Err(err).Msg("wsserver: unable to deserialize request message")
			continue
		}

		cli.handleRequest(ctx, msg)
	}
}

func (cli *client) handleRequest(ctx context.Context, msg domain.RequestMessage) {
	switch {
	case msg.StartProcessing != nil:
		cli.handleStartProcessing(ctx, *msg.StartProcessing)
	case msg.StopProcessing != nil:
		cli.controller.Send(ctx, fsm.RequestStopEvent{})
	default:
		log.Warn().Msg("wsserver: request message has no populated variant")
	}
}

func (cli *client) handleStartProcessing(ctx context.Context, job domain.ProcessingJobData) {
	if err := job.AlgoConf.Validate(); err != nil {
		log.Warn().Err(err).Msg("wsserver: rejecting processing job, invalid algo config")
		return
	}

	spec, err := param.FromSpecFile(job.SpecFile)
	if err != nil {
		log.Warn().Err(err).Str("spec_file", job.SpecFile).Msg("wsserver: rejecting processing job, bad spec file")
		return
	}

	cli.controller.Send(ctx, fsm.ProcessingJobEvent{
		Job:      job,
		Spec:     spec,
		AlgoConf: job.AlgoConf,
		Call:     objfunc.Call{Program: job.Program, Args: job.Args},
	})
}

// pingPong checks liveness: ping the peer at pingResolution, and fail the
// connection if no pong has arrived within pongWait.
func (cli *client) pingPong(ctx context.Context) error {
	pong := make(chan struct{})
	defer close(pong)
	cli.ws.Conn().SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		case <-ctx.Done():
		}
		return nil
	})

	pinger := channerics.NewTicker(ctx.Done(), pingResolution)
	lastPong := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pinger:
			if time.Since(lastPong) > pongWait {
				return fmt.Errorf("client disconnect, pong deadline exceeded")
			}
			if err := cli.ping(ctx); err != nil {
				return err
			}
		case <-pong:
			lastPong = time.Now()
		}
	}
}

func (cli *client) ping(ctx context.Context) error {
	return cli.ws.Write(ctx, func(ws *websocket.Conn) error {
		return ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
	})
}

// publish relays every status message from the subscription channel to the
// peer. It never drops or coalesces messages — a CandidateEvalReport is
// not idempotent, so every one delivered by the FSM must reach the client.
func (cli *client) publish(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-cli.status:
			if !ok {
				return nil
			}
			err := cli.ws.Write(ctx, func(ws *websocket.Conn) error {
				if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return err
				}
				payload, err := sonic.Marshal(msg)
				if err != nil {
					return err
				}
				return ws.WriteMessage(websocket.TextMessage, payload)
			})
			if err != nil {
				if isUnexpectedClose(err) {
					return fmt.Errorf("publish failed: %w", err)
				}
				return nil
			}
		}
	}
}
