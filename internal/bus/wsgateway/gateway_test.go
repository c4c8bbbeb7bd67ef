package wsgateway

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/dshills/scrollpane/internal/bus"
)

const (
	requestTag  = "!scroll-request"
	responseTag = "!scroll-response"
	readyTag    = "!scroll-ready"
)

func startGateway(t *testing.T, hub *bus.Hub) *httptest.Server {
	t.Helper()
	gw := New(hub, Options{
		Subscriptions:      []string{responseTag, readyTag},
		InsecureSkipVerify: true,
	})
	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, ctx context.Context, srv *httptest.Server) (*websocket.Conn, string) {
	t.Helper()

	wsURL := strings.Replace(srv.URL, "http", "ws", 1)
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close(websocket.StatusNormalClosure, "")
	})

	var welcome Frame
	if err := wsjson.Read(ctx, conn, &welcome); err != nil {
		t.Fatalf("read welcome: %v", err)
	}
	if welcome.Tag != WelcomeTag {
		t.Fatalf("first frame tag = %q, want %q", welcome.Tag, WelcomeTag)
	}
	var id string
	if err := json.Unmarshal(welcome.Content, &id); err != nil || id == "" {
		t.Fatalf("welcome content = %s", welcome.Content)
	}
	return conn, id
}

func TestGatewayRequestResponse(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := bus.NewHub()
	component := hub.Connect(4)
	component.Subscribe(requestTag)
	srv := startGateway(t, hub)

	conn, id := dial(t, ctx, srv)

	req := Frame{Tag: requestTag, Content: json.RawMessage(`{"id":1}`)}
	if err := wsjson.Write(ctx, conn, req); err != nil {
		t.Fatalf("write: %v", err)
	}

	var msg bus.Message
	select {
	case msg = <-component.Recv():
	case <-ctx.Done():
		t.Fatal("component did not receive the request")
	}
	if msg.Sender != id || msg.Tag != requestTag || string(msg.Content) != `{"id":1}` {
		t.Errorf("component got %+v", msg)
	}

	if err := component.Message(ctx, msg.Sender, responseTag, json.RawMessage(`{"id":1,"type":"recieved"}`)); err != nil {
		t.Fatalf("reply: %v", err)
	}

	var resp Frame
	if err := wsjson.Read(ctx, conn, &resp); err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.Tag != responseTag || resp.Sender != component.ID() {
		t.Errorf("response frame = %+v", resp)
	}
	if string(resp.Content) != `{"id":1,"type":"recieved"}` {
		t.Errorf("response content = %s", resp.Content)
	}
}

func TestGatewayBroadcastToSubscribers(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := bus.NewHub()
	component := hub.Connect(4)
	srv := startGateway(t, hub)

	conn, _ := dial(t, ctx, srv)

	if err := component.Broadcast(ctx, readyTag, nil); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	var f Frame
	if err := wsjson.Read(ctx, conn, &f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Tag != readyTag {
		t.Errorf("frame = %+v", f)
	}
}

func TestGatewayDirectMessageBetweenConnections(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := bus.NewHub()
	srv := startGateway(t, hub)

	a, _ := dial(t, ctx, srv)
	b, bID := dial(t, ctx, srv)

	if err := wsjson.Write(ctx, a, Frame{Tag: "ping", To: bID, Content: json.RawMessage(`1`)}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var f Frame
	if err := wsjson.Read(ctx, b, &f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Tag != "ping" || string(f.Content) != "1" {
		t.Errorf("frame = %+v", f)
	}
}

func TestGatewaySubscribeFrame(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := bus.NewHub()
	component := hub.Connect(4)
	srv := startGateway(t, hub)

	conn, _ := dial(t, ctx, srv)

	if err := wsjson.Write(ctx, conn, Frame{Subscribe: []string{"news"}}); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The subscribe frame is applied asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers("news") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription not applied")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := component.Broadcast(ctx, "news", "hello"); err != nil {
		t.Fatal(err)
	}
	var f Frame
	if err := wsjson.Read(ctx, conn, &f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Tag != "news" || string(f.Content) != `"hello"` {
		t.Errorf("frame = %+v", f)
	}
}

func TestGatewayClientRemovedOnDisconnect(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hub := bus.NewHub()
	srv := startGateway(t, hub)

	conn, _ := dial(t, ctx, srv)
	if hub.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", hub.Len())
	}

	_ = conn.Close(websocket.StatusNormalClosure, "")

	deadline := time.Now().Add(2 * time.Second)
	for hub.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Len() = %d after disconnect, want 0", hub.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
