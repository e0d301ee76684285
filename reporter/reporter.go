package reporter

import "sync"

// Handler latches a parse's first reported error: once one is recorded,
// every later call returns it unchanged rather than overwriting it. This
// mirrors the "stop at the first failure" policy every parse in this
// module follows, and stays safe to call from concurrent goroutines.
type Handler struct {
	mu  sync.Mutex
	err error
}

// NewHandler constructs an empty Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// HandleError records err as the parse's terminal error if none has been
// recorded yet, and returns whichever error is now latched. err is expected
// to satisfy ErrorWithPos, but any error is accepted and latched as-is.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err == nil {
		h.err = err
	}
	return h.err
}
