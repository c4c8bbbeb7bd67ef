package dispatcher

import (
	"github.com/dshills/scrollpane/internal/protocol"
)

// PreProcessHook is called before a request is applied.
// Returning false rejects the request: it is answered with ErrRejected and
// nothing it would enqueue is processed.
type PreProcessHook interface {
	PreProcess(req protocol.Request) bool
}

// PostProcessHook is called after a request has been answered.
type PostProcessHook interface {
	PostProcess(req protocol.Request, resp protocol.Response)
}

// PreProcessFunc is a function adapter for PreProcessHook.
type PreProcessFunc func(req protocol.Request) bool

// PreProcess implements PreProcessHook.
func (f PreProcessFunc) PreProcess(req protocol.Request) bool {
	return f(req)
}

// PostProcessFunc is a function adapter for PostProcessHook.
type PostProcessFunc func(req protocol.Request, resp protocol.Response)

// PostProcess implements PostProcessHook.
func (f PostProcessFunc) PostProcess(req protocol.Request, resp protocol.Response) {
	f(req, resp)
}

// AddPreHook registers a pre-process hook. Hooks run in registration order.
func (d *Dispatcher) AddPreHook(h PreProcessHook) {
	d.preHooks = append(d.preHooks, h)
}

// AddPostHook registers a post-process hook. Hooks run in registration order.
func (d *Dispatcher) AddPostHook(h PostProcessHook) {
	d.postHooks = append(d.postHooks, h)
}

func (d *Dispatcher) runPreHooks(req protocol.Request) bool {
	for _, h := range d.preHooks {
		if !h.PreProcess(req) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) runPostHooks(req protocol.Request, resp protocol.Response) {
	for _, h := range d.postHooks {
		h.PostProcess(req, resp)
	}
}

// LoggingHook logs every request and its response.
type LoggingHook struct {
	// LogFunc is called with log messages.
	LogFunc func(format string, args ...any)
}

// NewLoggingHook creates a new logging hook.
func NewLoggingHook(logFunc func(format string, args ...any)) *LoggingHook {
	return &LoggingHook{LogFunc: logFunc}
}

// PostProcess logs the request outcome.
func (h *LoggingHook) PostProcess(req protocol.Request, resp protocol.Response) {
	if h.LogFunc == nil {
		return
	}
	if resp.Kind == protocol.ResponseCreated {
		h.LogFunc("%s request %d -> %s uid=%d", req.Kind, req.ID, resp.Kind, resp.UID)
		return
	}
	h.LogFunc("%s request %d -> %s", req.Kind, req.ID, resp.Kind)
}

// ValidationHook rejects requests its function does not accept.
type ValidationHook struct {
	// ValidateFunc returns true if the request may be applied.
	ValidateFunc func(req protocol.Request) bool
}

// PreProcess validates the request.
func (h *ValidationHook) PreProcess(req protocol.Request) bool {
	if h.ValidateFunc != nil {
		return h.ValidateFunc(req)
	}
	return true
}

// NewEntryWidthHook returns a hook rejecting add and update requests whose
// entry is longer than max code points.
func NewEntryWidthHook(max int) *ValidationHook {
	return &ValidationHook{
		ValidateFunc: func(req protocol.Request) bool {
			switch req.Kind {
			case protocol.RequestAdd:
				return req.Entry.Width() <= max
			case protocol.RequestUpdate:
				return req.New.Width() <= max
			}
			return true
		},
	}
}
