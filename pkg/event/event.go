// Package event is the in-process event dispatcher.
//
// Domain events carry the order/payment lifecycle across the app without
// controllers knowing about mail, websockets or notifications:
//
//	event.Listen(event.OrderPlaced, func(payload interface{}) { ... })
//	event.FireAsync(event.OrderPlaced, order)
package event

import (
	"sync"

	"github.com/nikhilverma/shopline/pkg/workerpool"
)

// Event names fired by the application.
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
	PaymentSucceeded   = "payment.succeeded"
	PaymentFailed      = "payment.failed"
	ProductLowStock    = "product.low_stock"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}

	poolOnce sync.Once
	pool     *workerpool.Pool
)

func asyncPool() *workerpool.Pool {
	poolOnce.Do(func() {
		pool = workerpool.New(16)
	})
	return pool
}

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners through the bounded
// worker pool and returns immediately. If the pool is saturated the
// listener runs inline rather than being dropped.
func FireAsync(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h := h
		if err := asyncPool().Submit(func() { h(payload) }); err != nil {
			h(payload)
		}
	}
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
