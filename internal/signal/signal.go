// Package signal provides a typed, synchronous multicast channel.
//
// Handlers are invoked in-line with Publish, in the order they subscribed.
// Subscribe hands back a Token; Unsubscribe takes that token, so callers
// never need to compare handler identities.
package signal

import "sync"

// Handler is a callback invoked for every published value.
type Handler[T any] func(T)

// Token identifies a subscription. The zero Token is never issued.
type Token uint64

type subscription[T any] struct {
	token   Token
	handler Handler[T]
}

// Bus delivers published values to every subscribed handler.
type Bus[T any] struct {
	mu     sync.RWMutex
	subs   []subscription[T]
	nextID Token
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers handler and returns the token that removes it.
func (b *Bus[T]) Subscribe(handler Handler[T]) Token {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs = append(b.subs, subscription[T]{token: b.nextID, handler: handler})
	return b.nextID
}

// Unsubscribe removes the subscription identified by token.
// Returns false if the token is unknown or was already removed.
func (b *Bus[T]) Unsubscribe(token Token) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.token == token {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers value to all handlers subscribed at the time of the call.
// Handlers may subscribe or unsubscribe while being called.
func (b *Bus[T]) Publish(value T) {
	b.mu.RLock()
	// Snapshot handlers so callbacks run without the lock held
	snapshot := make([]Handler[T], len(b.subs))
	for i, s := range b.subs {
		snapshot[i] = s.handler
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(value)
	}
}

// Count returns the number of live subscriptions.
func (b *Bus[T]) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Clear removes every subscription.
func (b *Bus[T]) Clear() {
	b.mu.Lock()
	b.subs = nil
	b.mu.Unlock()
}
