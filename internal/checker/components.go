package checker

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/mattermost/updatechecker/model"
)

// Components is the set of components registered for update checks, keyed
// by slug.
type Components struct {
	mu         sync.RWMutex
	components map[string]*model.Component
}

// NewComponents returns an empty component set.
func NewComponents() *Components {
	return &Components{components: make(map[string]*model.Component)}
}

// Add registers a component. Slugs must be unique.
func (c *Components) Add(component *model.Component) error {
	if component == nil {
		return errors.New("component must not be nil")
	}
	if component.MetadataURL == "" {
		return errors.Errorf("component %s has no metadata URL", component.Slug)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.components[component.Slug]; ok {
		return errors.Errorf("component %s is already registered", component.Slug)
	}
	c.components[component.Slug] = component

	return nil
}

// Get returns the component registered under slug, or nil.
func (c *Components) Get(slug string) *model.Component {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.components[slug]
}

// List returns the registered components sorted by slug.
func (c *Components) List() []*model.Component {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]*model.Component, 0, len(c.components))
	for _, component := range c.components {
		list = append(list, component)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Slug < list[j].Slug
	})

	return list
}
