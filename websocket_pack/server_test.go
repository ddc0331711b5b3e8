package websocket_pack

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modulrcloud/sputnik-rpc/evmrpc"
	"github.com/modulrcloud/sputnik-rpc/executor"
	"github.com/modulrcloud/sputnik-rpc/structures"

	"github.com/gorilla/websocket"
)

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	return dialWithEngine(t, executor.InvokerFunc(func(context.Context, structures.EngineInvocation) error { return nil }))
}

func dialWithEngine(t *testing.T, engine executor.Invoker) *websocket.Conn {
	t.Helper()

	methods := evmrpc.NewEngineMethods(t.TempDir(), executor.NewTempChannel(t.TempDir()), engine)
	dispatcher := evmrpc.NewDispatcher(evmrpc.NewEthRegistry(methods))

	server := httptest.NewServer(NewWebsocketHandler(dispatcher))
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func TestWebsocketAnswersInOrder(t *testing.T) {

	conn := dialTestServer(t)

	requests := []string{
		`{"jsonrpc":"2.0","id":1,"method":"eth_chainId"}`,
		`{"jsonrpc":"2.0","id":2,"method":"net_version"}`,
		`{"jsonrpc":"2.0","id":3,"method":"eth_unknown"}`,
	}
	for _, req := range requests {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(req)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if reply := readReply(t, conn); !strings.Contains(reply, `"result":"0x1A4"`) || !strings.Contains(reply, `"id":1`) {
		t.Fatalf("unexpected first reply %s", reply)
	}
	if reply := readReply(t, conn); !strings.Contains(reply, `"result":"420"`) {
		t.Fatalf("unexpected second reply %s", reply)
	}
	if reply := readReply(t, conn); !strings.Contains(reply, `-32601`) {
		t.Fatalf("unexpected third reply %s", reply)
	}

}

func TestWebsocketSkipsNoContent(t *testing.T) {

	conn := dialTestServer(t)

	// The receipt stub has no result, so only the chainId request is answered.
	for _, req := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"eth_getTransactionReceipt","params":["0x00"]}`,
		`{"jsonrpc":"2.0","id":2,"method":"eth_chainId"}`,
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(req)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	if reply := readReply(t, conn); !strings.Contains(reply, `"id":2`) {
		t.Fatalf("expected the chainId reply first, got %s", reply)
	}

}

func TestWebsocketCloseCancelsRunningCall(t *testing.T) {

	started := make(chan struct{})
	cancelled := make(chan struct{})

	engine := executor.InvokerFunc(func(ctx context.Context, _ structures.EngineInvocation) error {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	})

	conn := dialWithEngine(t, engine)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"jsonrpc":"2.0","id":1,"method":"eth_call","params":[{"data":"0x"}]}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatalf("executor was never invoked")
	}

	_ = conn.Close()

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatalf("closing the connection did not cancel the running call")
	}

}
