package reloader

import (
	"net/http"
	"sync/atomic"
)

// AtomicHandler is an http.Handler whose underlying handler can be swapped
// while requests are in flight.
type AtomicHandler struct {
	val atomic.Value
}

type handlerHolder struct {
	h http.Handler
}

func NewAtomicHandler(h http.Handler) *AtomicHandler {
	ah := &AtomicHandler{}
	ah.Store(h)
	return ah
}

// Store replaces the current handler. A nil handler serves 503 until a real
// one is stored.
func (ah *AtomicHandler) Store(h http.Handler) {
	ah.val.Store(handlerHolder{h: h})
}

func (ah *AtomicHandler) load() http.Handler {
	if holder, ok := ah.val.Load().(handlerHolder); ok && holder.h != nil {
		return holder.h
	}
	return nil
}

func (ah *AtomicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h := ah.load(); h != nil {
		h.ServeHTTP(w, r)
		return
	}
	http.Error(w, "service unavailable", http.StatusServiceUnavailable)
}
