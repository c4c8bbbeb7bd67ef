// Package app wires the scroll pane together: it owns the scroll buffer,
// feeds requests from the bus to the dispatcher, and redraws the terminal
// after every batch that changed the buffer.
package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dshills/scrollpane/internal/bus"
	"github.com/dshills/scrollpane/internal/config"
	"github.com/dshills/scrollpane/internal/dispatcher"
	"github.com/dshills/scrollpane/internal/protocol"
	"github.com/dshills/scrollpane/internal/renderer"
	"github.com/dshills/scrollpane/internal/renderer/backend"
	"github.com/dshills/scrollpane/internal/scroll"
)

// Application is the central coordinator for the scroll pane.
// All buffer and renderer access happens on the goroutine running Run.
type Application struct {
	config *config.Config
	logger *Logger

	hub    *bus.Hub
	client *bus.Client

	buffer     *scroll.Buffer
	dispatcher *dispatcher.Dispatcher
	renderer   *renderer.Renderer
	backend    backend.Backend
	metrics    *Metrics

	width, height int

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

// Options configures the application.
type Options struct {
	// Config holds the startup settings. Nil means config.Default().
	Config *config.Config

	// Backend is the display. Required.
	Backend backend.Backend

	// Hub is the message bus to join. Nil creates a private hub.
	Hub *bus.Hub

	// Logger receives diagnostics. Nil means GetLogger().
	Logger *Logger
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, &InitError{Component: "backend", Err: ErrNoBackend}
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Hub == nil {
		opts.Hub = bus.NewHub()
	}
	if opts.Logger == nil {
		opts.Logger = GetLogger()
	}

	app := &Application{
		config:   opts.Config,
		logger:   opts.Logger.WithComponent("app"),
		hub:      opts.Hub,
		backend:  opts.Backend,
		renderer: renderer.New(opts.Backend),
		buffer:   scroll.NewBuffer(opts.Config.BufferOptions()),
		metrics:  NewMetrics(),
		done:     make(chan struct{}),
	}
	dcfg := dispatcher.DefaultConfig().WithMetrics().WithMaxRequests(opts.Config.MaxBatch)
	app.dispatcher = dispatcher.New(app.buffer, dcfg)
	if opts.Config.MaxEntryWidth > 0 {
		app.dispatcher.AddPreHook(dispatcher.NewEntryWidthHook(opts.Config.MaxEntryWidth))
	}
	app.dispatcher.AddPostHook(dispatcher.NewLoggingHook(opts.Logger.WithComponent("dispatcher").Debug))

	app.client = app.hub.Connect(bus.DefaultInboxSize)
	app.client.Subscribe(protocol.RequestTag)

	return app, nil
}

// Run initializes the backend, announces readiness on the bus and processes
// events until ctx is cancelled, the user quits or Shutdown is called.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.client.Close()

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	return app.eventLoop(ctx)
}

// Shutdown asks a running event loop to stop. It is safe to call more than
// once and before Run.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() {
		close(app.done)
	})
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// ClientID returns the bus id requests should be addressed to.
func (app *Application) ClientID() string {
	return app.client.ID()
}

// Config returns the startup configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Buffer returns the scroll buffer. It must not be used while Run is active.
func (app *Application) Buffer() *scroll.Buffer {
	return app.buffer
}

// Dispatcher returns the request dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Renderer returns the renderer.
func (app *Application) Renderer() *renderer.Renderer {
	return app.renderer
}
