package dispatcher

import (
	"time"

	"github.com/dshills/scrollpane/internal/protocol"
	"github.com/dshills/scrollpane/internal/scroll"
	"github.com/dshills/scrollpane/internal/styled"
)

// Store is the record store requests are applied to.
// *scroll.Buffer implements it.
type Store interface {
	Add(entry styled.Entry, pos scroll.Position) (uint32, bool)
	Remove(uid uint32) bool
	Update(uid uint32, entry styled.Entry) bool
}

// Result is the outcome of one processing round.
type Result struct {
	// Responses holds one response per processed request, in order.
	Responses []protocol.Response

	// Mutated reports whether any request changed the store.
	Mutated bool
}

// Reply returns the shaped reply for the round.
func (r Result) Reply() (protocol.Response, bool) {
	return Shape(r.Responses)
}

// Dispatcher applies requests to a store.
//
// Dispatcher is not safe for concurrent use; like the store it is owned by
// a single worker.
type Dispatcher struct {
	store   Store
	config  Config
	metrics *Metrics

	preHooks  []PreProcessHook
	postHooks []PostProcessHook
}

// New creates a dispatcher over store.
func New(store Store, config Config) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		config: config,
	}

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}

	return d
}

// NewWithDefaults creates a dispatcher with default configuration.
func NewWithDefaults(store Store) *Dispatcher {
	return New(store, DefaultConfig())
}

// Metrics returns the metrics collector, or nil when metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Process runs one round seeded with req.
func (d *Dispatcher) Process(req protocol.Request) Result {
	start := time.Now()

	var (
		result  Result
		handled int
	)
	queue := []protocol.Request{req}

	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		handled++

		var resp protocol.Response
		switch {
		case d.config.MaxRequests > 0 && handled > d.config.MaxRequests:
			resp = protocol.Error(r.ID, ErrRoundLimit)
		case !d.runPreHooks(r):
			resp = protocol.Error(r.ID, ErrRejected)
		default:
			var children []protocol.Request
			resp, children = d.apply(r)
			queue = append(queue, children...)
		}

		switch resp.Kind {
		case protocol.ResponseCreated, protocol.ResponseRemoved, protocol.ResponseUpdated:
			result.Mutated = true
		}
		result.Responses = append(result.Responses, resp)
		d.runPostHooks(r, resp)

		if d.metrics != nil {
			d.metrics.RecordRequest(r.Kind, resp.Kind)
		}
	}

	if d.metrics != nil {
		d.metrics.RecordRound(time.Since(start), result.Mutated)
	}

	return result
}

// apply executes a single request and returns its response together with
// any requests it enqueues.
func (d *Dispatcher) apply(r protocol.Request) (protocol.Response, []protocol.Request) {
	switch r.Kind {
	case protocol.RequestAdd:
		if uid, ok := d.store.Add(r.Entry, r.Position); ok {
			return protocol.Created(r.ID, uid), nil
		}
		return protocol.NotFound(r.ID), nil

	case protocol.RequestRemove:
		if d.store.Remove(r.UID) {
			return protocol.Removed(r.ID), nil
		}
		return protocol.NotFound(r.ID), nil

	case protocol.RequestUpdate:
		if d.store.Update(r.UID, r.New) {
			return protocol.Updated(r.ID), nil
		}
		return protocol.NotFound(r.ID), nil

	case protocol.RequestMultiple:
		return protocol.Received(r.ID), r.Requests

	default:
		return protocol.Error(r.ID, ErrInvalidRequest), nil
	}
}

// Shape collapses the responses of a round into a single reply.
// It reports false when there is nothing to send.
func Shape(responses []protocol.Response) (protocol.Response, bool) {
	switch len(responses) {
	case 0:
		return protocol.Response{}, false
	case 1:
		return responses[0], true
	default:
		return protocol.Multiple(responses[0].ID, responses), true
	}
}
