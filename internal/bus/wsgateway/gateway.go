// Package wsgateway bridges remote websocket clients onto a bus hub.
//
// Each websocket connection becomes one hub client. Text frames sent by the
// remote side are JSON objects:
//
//	{"tag":"!scroll-request","content":{...}}           broadcast to subscribers
//	{"tag":"...","to":"<client id>","content":{...}}     direct message
//	{"subscribe":["tag", ...]}                           add subscriptions
//
// Messages delivered to the hub client are written back as
//
//	{"tag":"...","sender":"<client id>","content":{...}}
//
// The first frame written on every connection is a welcome frame tagged
// WelcomeTag whose content is the connection's own client id.
package wsgateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/dshills/scrollpane/internal/bus"
)

// WelcomeTag tags the frame that tells a remote client its id.
const WelcomeTag = "!welcome"

// Frame is the JSON object exchanged over the websocket.
type Frame struct {
	Tag       string          `json:"tag,omitempty"`
	To        string          `json:"to,omitempty"`
	Sender    string          `json:"sender,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	Subscribe []string        `json:"subscribe,omitempty"`
}

// Logger is the logging surface the gateway needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}

// Options configures a Gateway.
type Options struct {
	// Subscriptions are the tags every new connection subscribes to.
	Subscriptions []string

	// InboxSize is the hub inbox capacity per connection.
	InboxSize int

	// WriteTimeout bounds each frame write. Zero means 10 seconds.
	WriteTimeout time.Duration

	// OriginPatterns lists additional allowed origins. See
	// websocket.AcceptOptions.
	OriginPatterns []string

	// InsecureSkipVerify disables the origin check.
	InsecureSkipVerify bool

	// Logger receives connection diagnostics. Nil discards them.
	Logger Logger
}

// Gateway is an http.Handler upgrading requests to websocket bus clients.
type Gateway struct {
	hub    *bus.Hub
	opts   Options
	logger Logger
}

// New creates a gateway attached to hub.
func New(hub *bus.Hub, opts Options) *Gateway {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	return &Gateway{hub: hub, opts: opts, logger: logger}
}

// ServeHTTP implements http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:     g.opts.OriginPatterns,
		InsecureSkipVerify: g.opts.InsecureSkipVerify,
	})
	if err != nil {
		g.logger.Warn("websocket accept: %v", err)
		return
	}

	client := g.hub.Connect(g.opts.InboxSize)
	client.Subscribe(g.opts.Subscriptions...)
	defer client.Close()

	g.logger.Debug("client %s connected from %s", client.ID(), r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	writeErr := make(chan error, 1)
	go func() {
		writeErr <- g.writeLoop(ctx, conn, client)
		cancel()
	}()

	err = g.readLoop(ctx, conn, client)
	cancel()
	if werr := <-writeErr; err == nil {
		err = werr
	}

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		g.logger.Debug("client %s disconnected", client.ID())
		_ = conn.Close(websocket.StatusNormalClosure, "")
	case errors.Is(err, context.Canceled):
		_ = conn.Close(websocket.StatusGoingAway, "shutting down")
	default:
		g.logger.Warn("client %s: %v", client.ID(), err)
		_ = conn.Close(websocket.StatusInternalError, "")
	}
}

func (g *Gateway) readLoop(ctx context.Context, conn *websocket.Conn, client *bus.Client) error {
	for {
		var f Frame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			return err
		}

		if len(f.Subscribe) > 0 {
			client.Subscribe(f.Subscribe...)
		}
		if f.Tag == "" {
			continue
		}

		var err error
		if f.To != "" {
			err = client.Message(ctx, f.To, f.Tag, f.Content)
		} else {
			err = client.Broadcast(ctx, f.Tag, f.Content)
		}

		switch {
		case errors.Is(err, bus.ErrUnknownClient):
			g.logger.Debug("client %s: message to unknown client %s dropped", client.ID(), f.To)
		case err != nil:
			return err
		}
	}
}

func (g *Gateway) writeLoop(ctx context.Context, conn *websocket.Conn, client *bus.Client) error {
	welcome, err := json.Marshal(client.ID())
	if err != nil {
		return err
	}
	if err := g.write(ctx, conn, Frame{Tag: WelcomeTag, Content: welcome}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-client.Done():
			return bus.ErrClosed
		case msg := <-client.Recv():
			f := Frame{Tag: msg.Tag, Sender: msg.Sender, Content: msg.Content}
			if err := g.write(ctx, conn, f); err != nil {
				return err
			}
		}
	}
}

func (g *Gateway) write(ctx context.Context, conn *websocket.Conn, f Frame) error {
	ctx, cancel := context.WithTimeout(ctx, g.opts.WriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, f)
}
