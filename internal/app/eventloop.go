package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/scrollpane/internal/bus"
	"github.com/dshills/scrollpane/internal/protocol"
	"github.com/dshills/scrollpane/internal/renderer/backend"
)

// eventLoop is the main application loop. Terminal events arrive from a
// polling goroutine; everything else runs here.
func (app *Application) eventLoop(ctx context.Context) error {
	app.width, app.height = app.backend.Size()
	app.buffer.Format(app.width)
	app.redraw()
	app.renderer.Show()

	if err := app.client.Broadcast(ctx, protocol.ReadyTag, nil); err != nil {
		app.logger.Warn("broadcast ready: %v", err)
	}
	app.logger.Info("ready as %s (%dx%d, %s)", app.client.ID(), app.width, app.height, app.buffer.Mode())

	events := make(chan backend.Event)
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.pollEvents(events, stop)
	}()
	defer func() {
		close(stop)
		app.backend.PostEvent(backend.Event{Type: backend.EventNone})
		wg.Wait()
		app.logStats()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-app.done:
			return nil
		case ev := <-events:
			if err := app.handleBackendEvent(ev); errors.Is(err, ErrQuit) {
				return nil
			}
		case msg := <-app.client.Recv():
			app.handleMessage(ctx, msg)
		}
	}
}

// pollEvents forwards backend events until stop is closed. EventNone is
// what PollEvent returns once woken, so it is never forwarded.
func (app *Application) pollEvents(events chan<- backend.Event, stop <-chan struct{}) {
	for {
		ev := app.backend.PollEvent()
		if ev.Type == backend.EventNone {
			select {
			case <-stop:
				return
			default:
				continue
			}
		}
		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}

// handleBackendEvent processes a backend event.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		app.handleResize(ev.Width, ev.Height)
	case backend.EventKey:
		return app.handleKey(ev)
	}
	return nil
}

// handleResize reformats only when the width changed; a height change just
// shows more or fewer lines of the same cache.
func (app *Application) handleResize(width, height int) {
	app.metrics.RecordResize()
	if width != app.width {
		app.buffer.Format(width)
	}
	app.width, app.height = width, height

	start := time.Now()
	app.redraw()
	app.renderer.Show()
	app.metrics.RecordFrame(time.Since(start))
}

func (app *Application) handleKey(ev backend.Event) error {
	switch {
	case ev.Key == backend.KeyCtrlC, ev.Key == backend.KeyEscape:
		return ErrQuit
	case ev.Key == backend.KeyRune && ev.Rune == 'q':
		return ErrQuit
	case ev.Key == backend.KeyCtrlL:
		app.redraw()
		app.renderer.Show()
	}
	return nil
}

// handleMessage runs one request batch. The buffer is formatted and drawn at
// most once per batch; showing the frame and replying to the sender then
// happen concurrently.
func (app *Application) handleMessage(ctx context.Context, msg bus.Message) {
	log := app.logger.WithField("sender", msg.Sender)
	if msg.Tag != protocol.RequestTag {
		app.metrics.RecordIgnored()
		log.Debug("ignoring %q", msg.Tag)
		return
	}
	start := time.Now()
	defer func() { app.metrics.RecordMessage(time.Since(start)) }()

	var (
		reply   protocol.Response
		ok      bool
		mutated bool
	)
	req, err := protocol.Decode(msg.Content)
	if err != nil {
		app.metrics.RecordDecodeError()
		log.Warn("bad request: %v", err)
		var derr *protocol.DecodeError
		var id uint32
		if errors.As(err, &derr) {
			id = derr.ID
		}
		reply, ok = protocol.Error(id, err), true
	} else {
		res := app.dispatcher.Process(req)
		reply, ok = res.Reply()
		mutated = res.Mutated
	}

	g, gctx := errgroup.WithContext(ctx)
	if mutated {
		app.buffer.Format(app.width)
		app.redraw()
		g.Go(func() error {
			app.renderer.Show()
			app.metrics.RecordFrame(time.Since(start))
			return nil
		})
	}
	if ok {
		g.Go(func() error {
			if err := app.client.Message(gctx, msg.Sender, protocol.ResponseTag, reply); err != nil {
				return &ComponentError{Component: "bus", Action: "reply to " + msg.Sender, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		app.metrics.RecordReplyError()
		log.Warn("%v", err)
	}
}

func (app *Application) redraw() {
	app.renderer.Draw(app.buffer.Lines(), app.width, app.height)
}

func (app *Application) logStats() {
	s := app.metrics.Snapshot()
	app.logger.Info("stopping after %s: %d messages (avg %s), %d frames, %d decode errors, %d reply errors",
		s.Uptime.Round(time.Millisecond), s.MessageCount, s.AvgMessageTime(), s.FrameCount, s.DecodeErrors, s.ReplyErrors)

	dm := app.dispatcher.Metrics()
	if dm == nil {
		return
	}
	ds := dm.Snapshot()
	stats := app.logger.WithFields(map[string]any{
		"rounds":   ds.TotalRounds,
		"mutating": ds.MutatingRounds,
		"notFound": ds.TotalNotFound,
		"errors":   ds.TotalErrors,
	})
	for _, km := range dm.TopKinds(4) {
		stats = stats.WithField(km.Kind.String(), km.Count)
	}
	stats.Info("processed %d requests (avg round %s)", ds.TotalRequests, ds.AverageDuration)
}
