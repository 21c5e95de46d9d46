package web

import (
	"sync"

	"validprop/internal/dashboard"
)

// viewRegistry maps the view id handed out with a dashboard page to the
// controller serving that page's update stream.
type viewRegistry struct {
	mu    sync.RWMutex
	views map[string]*dashboard.Controller
}

func newViewRegistry() *viewRegistry {
	return &viewRegistry{views: make(map[string]*dashboard.Controller)}
}

// add registers c under id, replacing a stream that is reconnecting.
func (r *viewRegistry) add(id string, c *dashboard.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[id] = c
}

// remove drops id only if it still points at c.
func (r *viewRegistry) remove(id string, c *dashboard.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.views[id] == c {
		delete(r.views, id)
	}
}

func (r *viewRegistry) get(id string) (*dashboard.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.views[id]
	return c, ok
}

func (r *viewRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}
