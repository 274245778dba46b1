package domain

import "context"

// Observer receives human-readable progress messages from the engine.
//
// It is a write-only sink. Implementations only ever receive fixed status strings;
// passwords, keys, nonces and plaintext are never passed to it.
type Observer interface {
	Observe(ctx context.Context, status string)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx context.Context, status string)

// Observe calls f(ctx, status).
func (f ObserverFunc) Observe(ctx context.Context, status string) {
	f(ctx, status)
}

// NopObserver discards every status message.
type NopObserver struct{}

// Observe does nothing.
func (NopObserver) Observe(context.Context, string) {}
