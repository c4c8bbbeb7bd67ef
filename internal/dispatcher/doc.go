// Package dispatcher applies scroll requests to a store and collects the
// responses of one processing round.
//
// # Processing
//
// Each inbound request seeds a FIFO queue. Requests are taken from the front
// one at a time:
//
//   - add, remove and update are applied to the Store and answered with
//     created, removed, updated or not found
//   - multiple appends its children to the back of the queue and is answered
//     with an acknowledgement carrying its own id
//
// Nested batches are therefore flattened breadth first and every response
// of a round appears in processing order. The round reports whether any
// request changed the store so the caller can re-layout and redraw once.
//
// # Replies
//
// Shape turns the responses of a round into at most one reply: nothing for
// an empty round, the response itself for a single one, otherwise a
// multiple envelope that takes the id of the first response.
package dispatcher
