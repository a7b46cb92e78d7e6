// Package hooks is an explicit registry of named value-transforming
// callbacks. Callbacks registered under a name run synchronously in
// registration order, each receiving the previous callback's result.
package hooks

import (
	"sync"

	"github.com/mattermost/updatechecker/model"
)

// Tags of the extension points the update checker calls out to. Hooks are
// registered under the component-scoped name of a tag, see
// model.Identity.UniqueName.
const (
	// RequestUpdateResult runs once per successful fetch, after the payload
	// was parsed and before translations are filtered.
	RequestUpdateResult = "request_update_result"
	// PreInjectUpdate runs before an update is merged into the host's
	// update list.
	PreInjectUpdate = "pre_inject_update"
)

// UpdateFilter transforms an update. result is the raw transport result the
// update was built from, or nil when the filter runs on a cached update.
// Returning nil discards the update.
type UpdateFilter func(update *model.UpdateRecord, result *model.TransportResult) *model.UpdateRecord

// Registry maps hook names to ordered lists of filters.
type Registry struct {
	mu      sync.RWMutex
	filters map[string][]UpdateFilter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		filters: make(map[string][]UpdateFilter),
	}
}

// Register appends a filter to the named hook.
func (r *Registry) Register(name string, filter UpdateFilter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.filters[name] = append(r.filters[name], filter)
}

// Has reports whether any filter is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filters[name]) > 0
}

// Apply runs the filters registered under name over update. Each filter
// receives its own copy, so filters cannot mutate the caller's value. Once a
// filter returns nil the remaining filters are skipped.
func (r *Registry) Apply(name string, update *model.UpdateRecord, result *model.TransportResult) *model.UpdateRecord {
	r.mu.RLock()
	filters := make([]UpdateFilter, len(r.filters[name]))
	copy(filters, r.filters[name])
	r.mu.RUnlock()

	for _, filter := range filters {
		if update == nil {
			return nil
		}
		update = filter(update.Clone(), result)
	}

	return update
}
