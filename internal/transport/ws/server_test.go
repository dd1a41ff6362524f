package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/codegoddy/skincare/internal/domain/broadcast"
	"github.com/codegoddy/skincare/internal/platform/logging"
)

func newServerForTest(t *testing.T) (*Server, *broadcast.Hub, *httptest.Server) {
	t.Helper()
	logger, err := logging.New(logging.Config{Level: "error"})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })

	hub := broadcast.NewHub(broadcast.Config{QueueSize: 16, Workers: 1, SendTimeout: time.Second}, logger)
	hub.Start()
	t.Cleanup(hub.Stop)

	srv := NewServer(ServerConfig{}, hub, logger)
	ts := httptest.NewServer(http.HandlerFunc(srv.Handle))
	t.Cleanup(ts.Close)
	return srv, hub, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForCount(t *testing.T, hub *broadcast.Hub, topic string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Count(topic) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("topic %s never reached %d subscribers (have %d)", topic, want, hub.Count(topic))
}

func TestServer_SubscribeAndReceive(t *testing.T) {
	_, hub, ts := newServerForTest(t)

	conn := dial(t, ts, "?topic=products")
	waitForCount(t, hub, broadcast.TopicProducts, 1)

	hub.Broadcast(broadcast.TopicProducts, []byte(`{"type":"product_created","id":"p-1"}`))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if !strings.Contains(string(payload), "product_created") {
		t.Fatalf("unexpected frame: %s", payload)
	}
}

func TestServer_DefaultTopicIsProducts(t *testing.T) {
	_, hub, ts := newServerForTest(t)
	dial(t, ts, "")
	waitForCount(t, hub, broadcast.TopicProducts, 1)
}

func TestServer_UnknownTopicRejected(t *testing.T) {
	_, _, ts := newServerForTest(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?topic=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial should fail for an unknown topic")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 handshake response, got %+v", resp)
	}
}

func TestServer_DisconnectRemovesSubscriber(t *testing.T) {
	_, hub, ts := newServerForTest(t)

	conn := dial(t, ts, "?topic=orders")
	waitForCount(t, hub, broadcast.TopicOrders, 1)

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	waitForCount(t, hub, broadcast.TopicOrders, 0)
}
