// Package registry keeps the catalog of components the preview tools can
// render: their metadata, variant axes, factories and stories.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/tessera/pkg/reactive"
	"github.com/conneroisu/tessera/pkg/variants"
)

// ComponentRegistry manages all catalogued components
type ComponentRegistry struct {
	components map[string]*ComponentInfo
	mutex      sync.RWMutex
	watchers   []chan ComponentEvent
}

// Delegation describes whether a component can render through a child
// delegate.
type Delegation string

const (
	DelegationNone     Delegation = "none"
	DelegationOptional Delegation = "optional"
	DelegationRequired Delegation = "required"
)

// Props are string-valued component props keyed by name. Values may be
// signals, so a factory built from them follows later changes.
type Props map[string]reactive.Value[string]

// StaticProps wraps plain values as Props.
func StaticProps(values map[string]string) Props {
	props := make(Props, len(values))
	for k, v := range values {
		props[k] = reactive.Static(v)
	}
	return props
}

// Get returns the current value of key, or "" when it is not set.
func (p Props) Get(key string) string {
	return reactive.Get(p[key], "")
}

// Factory builds a component from props and children. children may be nil.
type Factory func(props Props, children templ.Component) (templ.Component, error)

// ComponentInfo holds metadata about a catalogued component
type ComponentInfo struct {
	Name             string              `json:"name" yaml:"name"`
	Description      string              `json:"description" yaml:"description"`
	Element          string              `json:"element,omitempty" yaml:"element,omitempty"`
	Axes             []variants.AxisInfo `json:"axes,omitempty" yaml:"axes,omitempty"`
	Delegation       Delegation          `json:"delegation" yaml:"delegation"`
	RequiresChildren bool                `json:"requires_children" yaml:"requires_children"`
	Examples         []Example           `json:"examples,omitempty" yaml:"examples,omitempty"`
	Stories          []Example           `json:"stories,omitempty" yaml:"stories,omitempty"`

	// Class is nil for components without markup of their own.
	Class   *variants.ClassSpec `json:"-" yaml:"-"`
	Factory Factory             `json:"-" yaml:"-"`
}

// Example is a named set of props to preview a component with.
type Example struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Props       map[string]string `json:"props,omitempty" yaml:"props,omitempty"`
}

// Axis returns the axis named name.
func (c *ComponentInfo) Axis(name string) (variants.AxisInfo, bool) {
	for _, axis := range c.Axes {
		if axis.Name == name {
			return axis, true
		}
	}
	return variants.AxisInfo{}, false
}

// AllExamples returns the built-in examples followed by the stories. A story
// replaces the built-in example of the same name.
func (c *ComponentInfo) AllExamples() []Example {
	all := make([]Example, 0, len(c.Examples)+len(c.Stories))
	for _, ex := range c.Examples {
		if _, ok := findExample(c.Stories, ex.Name); !ok {
			all = append(all, ex)
		}
	}
	return append(all, c.Stories...)
}

// Example returns the example or story named name.
func (c *ComponentInfo) Example(name string) (Example, bool) {
	if ex, ok := findExample(c.Stories, name); ok {
		return ex, true
	}
	return findExample(c.Examples, name)
}

func findExample(examples []Example, name string) (Example, bool) {
	for _, ex := range examples {
		if ex.Name == name {
			return ex, true
		}
	}
	return Example{}, false
}

// ComponentEvent represents a change in the component registry
type ComponentEvent struct {
	Type      EventType
	Component *ComponentInfo
	Timestamp time.Time
}

// EventType represents the type of component event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

func (t EventType) String() string {
	switch t {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// NewComponentRegistry creates a new component registry
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*ComponentInfo),
		watchers:   make([]chan ComponentEvent, 0),
	}
}

// Register adds or updates a component in the registry
func (r *ComponentRegistry) Register(component *ComponentInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.components[component.Name]; exists {
		eventType = EventTypeUpdated
	}

	r.components[component.Name] = component
	r.notify(ComponentEvent{
		Type:      eventType,
		Component: component,
		Timestamp: time.Now(),
	})
}

// Get retrieves a component by name
func (r *ComponentRegistry) Get(name string) (*ComponentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	component, exists := r.components[name]
	return component, exists
}

// GetAll returns all registered components sorted by name
func (r *ComponentRegistry) GetAll() []*ComponentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]*ComponentInfo, 0, len(r.components))
	for _, component := range r.components {
		result = append(result, component)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Names returns the sorted names of all registered components
func (r *ComponentRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove removes a component from the registry
func (r *ComponentRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	component, exists := r.components[name]
	if !exists {
		return
	}

	delete(r.components, name)
	r.notify(ComponentEvent{
		Type:      EventTypeRemoved,
		Component: component,
		Timestamp: time.Now(),
	})
}

// notify must be called with the write lock held.
func (r *ComponentRegistry) notify(event ComponentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// Watch returns a channel that receives component events
func (r *ComponentRegistry) Watch() <-chan ComponentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan ComponentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *ComponentRegistry) UnWatch(ch <-chan ComponentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered components
func (r *ComponentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.components)
}
