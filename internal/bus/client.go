package bus

import (
	"context"
	"errors"
	"sync"
)

// Client is a hub participant.
type Client struct {
	id    string
	hub   *Hub
	inbox chan Message

	done      chan struct{}
	closeOnce sync.Once

	mu   sync.RWMutex
	tags map[string]struct{}
}

// ID returns the client's unique id.
func (c *Client) ID() string {
	return c.id
}

// Subscribe adds tags to the set of broadcast tags the client receives.
func (c *Client) Subscribe(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tag := range tags {
		c.tags[tag] = struct{}{}
	}
}

// Unsubscribe removes tags from the client's subscriptions.
func (c *Client) Unsubscribe(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, tag := range tags {
		delete(c.tags, tag)
	}
}

func (c *Client) subscribed(tag string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tags[tag]
	return ok
}

// Recv returns the channel messages are delivered on. The channel is never
// closed; select on Done to observe shutdown.
func (c *Client) Recv() <-chan Message {
	return c.inbox
}

// Done is closed when the client is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Message sends content to the client with id to. Direct messages are
// delivered regardless of the recipient's subscriptions.
func (c *Client) Message(ctx context.Context, to, tag string, content any) error {
	if err := c.check(tag); err != nil {
		return err
	}
	target, ok := c.hub.lookup(to)
	if !ok {
		return ErrUnknownClient
	}

	raw, err := encode(content)
	if err != nil {
		return err
	}
	return target.deliver(ctx, Message{Sender: c.id, Tag: tag, Content: raw})
}

// Broadcast sends content to every other client subscribed to tag.
// Recipients closed during delivery are skipped.
func (c *Client) Broadcast(ctx context.Context, tag string, content any) error {
	if err := c.check(tag); err != nil {
		return err
	}

	raw, err := encode(content)
	if err != nil {
		return err
	}

	msg := Message{Sender: c.id, Tag: tag, Content: raw}
	for _, target := range c.hub.subscribers(tag, c.id) {
		if err := target.deliver(ctx, msg); err != nil && !errors.Is(err, ErrClosed) {
			return err
		}
	}
	return nil
}

func (c *Client) check(tag string) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	if tag == "" {
		return ErrEmptyTag
	}
	return nil
}

func (c *Client) deliver(ctx context.Context, msg Message) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.inbox <- msg:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects the client from the hub. It is safe to call more than
// once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.hub.remove(c.id)
		close(c.done)
	})
}
