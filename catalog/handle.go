package catalog

import (
	"sync/atomic"
)

// Handle is the process-scoped publication point for a loaded catalog.
// The loader builds a complete Catalog off to the side and the owner
// publishes it here in one atomic swap, so a reader either sees the old
// catalog or the new one, never a half-populated entry.
//
// Reloading a schema document is allowed: publishing again replaces the
// whole catalog. Readers that captured the previous snapshot via Current
// keep a consistent view until they next call Current.
type Handle struct {
	cur atomic.Pointer[Catalog]
}

// Publish atomically replaces the current catalog.
func (h *Handle) Publish(c *Catalog) {
	h.cur.Store(c)
}

// Current returns the most recently published catalog, or nil if nothing
// has been published yet.
func (h *Handle) Current() *Catalog {
	return h.cur.Load()
}
