package credential

import "sync"

// Holder keeps the current bearer token in memory. The session store is its
// only writer; the HTTP adapter reads it per request.
type Holder struct {
	mu    sync.RWMutex
	token string
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Token returns the current credential or empty string.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Set replaces the current credential.
func (h *Holder) Set(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

// Clear drops the current credential.
func (h *Holder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = ""
}
