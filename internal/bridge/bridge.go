// Package bridge hands single values to a host execution context and waits
// for the correlated reply, turning an asynchronous fire-and-forget
// submission into a synchronous call with an explicit failure mode.
package bridge

import (
	"context"
	"errors"
)

// Callback is the host-supplied function invoked once per delivered value.
// It runs on the host execution context, never on the caller's goroutine.
type Callback func(value string) (string, error)

// Submitter is the host context's scheduling primitive. Submit must either
// run the job or, if the context has shut down, invoke its drop hook.
type Submitter interface {
	Submit(run, drop func())
}

// ErrDelivery reports that the correlation channel closed without a reply:
// the job was dropped before running or the callback itself failed.
var ErrDelivery = errors.New("bridge: reply channel closed without a value")

// Bridge invokes one callback handle through one submitter. A Bridge may be
// shared; each Call is independent.
type Bridge struct {
	submit Submitter
	fn     Callback
}

func New(s Submitter, fn Callback) *Bridge {
	return &Bridge{submit: s, fn: fn}
}

// Call delivers value to the callback on the host context and returns the
// callback's reply. Each call creates a single-use correlation channel; at
// most one reply is ever sent on it, and closing it without a value is the
// delivery-failure signal. There is no timeout: Call waits until a reply
// arrives, the channel closes, or ctx is cancelled.
func (b *Bridge) Call(ctx context.Context, value string) (string, error) {
	// A cancelled caller must not reach the host context at all; without
	// this the job would be submitted and the callback could still run
	// even though Call reports cancellation.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reply := make(chan string, 1)

	b.submit.Submit(func() {
		defer close(reply)
		out, err := b.fn(value)
		if err != nil {
			return
		}
		reply <- out
	}, func() {
		close(reply)
	})

	select {
	case out, ok := <-reply:
		if !ok {
			return "", ErrDelivery
		}
		return out, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
