package websocket_pack

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/evmrpc"
	"github.com/modulrcloud/sputnik-rpc/structures"
	"github.com/modulrcloud/sputnik-rpc/utils"

	"github.com/lxzan/gws"
)

// RPCEventHandler answers every data frame as one JSON-RPC request. Frames of a connection are
// served in arrival order; a no-content outcome sends no frame back.
type RPCEventHandler struct {
	gws.BuiltinEventHandler
	dispatcher *evmrpc.Dispatcher
}

const sessionKey = "rpc"

// Pending frames per connection. A full queue stalls the read loop of that connection only.
const sessionQueueSize = 64

// rpcSession serves the frames of one connection off the read loop, so a close is seen while a
// call is still running and cancels it.
type rpcSession struct {
	ctx    context.Context
	cancel context.CancelFunc
	queue  chan []byte
}

func (h *RPCEventHandler) OnOpen(connection *gws.Conn) {

	ctx, cancel := context.WithCancel(context.Background())

	session := &rpcSession{ctx: ctx, cancel: cancel, queue: make(chan []byte, sessionQueueSize)}

	connection.Session().Store(sessionKey, session)

	go h.serve(connection, session)

}

func (h *RPCEventHandler) OnClose(connection *gws.Conn, _ error) {

	if session, ok := loadSession(connection); ok {
		session.cancel()
		close(session.queue)
	}

}

func (h *RPCEventHandler) OnMessage(connection *gws.Conn, message *gws.Message) {

	defer message.Close()

	session, ok := loadSession(connection)
	if !ok {
		return
	}

	// The message buffer goes back to the pool on Close.
	payload := append([]byte(nil), message.Bytes()...)

	select {
	case session.queue <- payload:
	case <-session.ctx.Done():
	}

}

func (h *RPCEventHandler) serve(connection *gws.Conn, session *rpcSession) {

	for payload := range session.queue {

		if session.ctx.Err() != nil {
			continue
		}

		outcome := h.dispatcher.Dispatch(session.ctx, payload)

		if outcome.NoContent || session.ctx.Err() != nil {
			continue
		}

		if err := connection.WriteMessage(gws.OpcodeText, outcome.Payload); err != nil {
			utils.LogWithTimeThrottled("ws-write", 10*time.Second, "Failed to write websocket reply: "+err.Error(), utils.YELLOW_COLOR)
		}

	}

}

func loadSession(connection *gws.Conn) (*rpcSession, bool) {
	value, ok := connection.Session().Load(sessionKey)
	if !ok {
		return nil, false
	}
	session, ok := value.(*rpcSession)
	return session, ok
}

func NewUpgrader(dispatcher *evmrpc.Dispatcher) *gws.Upgrader {
	return gws.NewUpgrader(&RPCEventHandler{dispatcher: dispatcher}, &gws.ServerOption{
		ParallelEnabled:    false,
		ReadMaxPayloadSize: constants.MaxRequestBodyBytes,
		Recovery:           gws.Recovery,
	})
}

func NewWebsocketHandler(dispatcher *evmrpc.Dispatcher) http.Handler {

	upgrader := NewUpgrader(dispatcher)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		connection, err := upgrader.Upgrade(w, r)
		if err != nil {
			return
		}

		go connection.ReadLoop()

	})

}

func NewWebsocketServer(cfg structures.GatewayConfig, dispatcher *evmrpc.Dispatcher) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Interface, strconv.Itoa(cfg.WebSocketPort)),
		Handler:           NewWebsocketHandler(dispatcher),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// CreateWebsocketServer blocks until the server is closed.
func CreateWebsocketServer(server *http.Server) {

	utils.LogWithTime(fmt.Sprintf("Websocket server is starting at ws://%s ...✅", server.Addr), utils.CYAN_COLOR)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.LogWithTime(fmt.Sprintf("Error in websocket server: %s", err), utils.RED_COLOR)
	}

}
