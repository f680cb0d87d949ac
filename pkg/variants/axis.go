// Package variants maps component variant values to Tailwind class fragments
// and resolves the final class string of a component.
package variants

import (
	"fmt"

	"github.com/conneroisu/tessera/internal/errors"
)

// Option is one member of an axis together with its class fragment.
type Option[T ~string] struct {
	Value T
	Class string
}

// Axis is a named, closed set of variant values with exactly one default.
// Every value maps to a fragment, possibly empty. An Axis is immutable.
type Axis[T ~string] struct {
	name    string
	def     T
	order   []T
	classes map[T]string
}

// NewAxis builds an axis. It panics if options is empty, if a value is
// listed twice or if def is not one of the listed values; axes are declared
// at package level, so this fails at init.
func NewAxis[T ~string](name string, def T, options ...Option[T]) *Axis[T] {
	if len(options) == 0 {
		panic(fmt.Sprintf("variants: axis %q has no values", name))
	}
	a := &Axis[T]{
		name:    name,
		def:     def,
		order:   make([]T, 0, len(options)),
		classes: make(map[T]string, len(options)),
	}
	for _, opt := range options {
		if _, dup := a.classes[opt.Value]; dup {
			panic(fmt.Sprintf("variants: axis %q lists %q twice", name, opt.Value))
		}
		a.order = append(a.order, opt.Value)
		a.classes[opt.Value] = opt.Class
	}
	if _, ok := a.classes[def]; !ok {
		panic(fmt.Sprintf("variants: axis %q default %q is not a member", name, def))
	}
	return a
}

// Name returns the axis name.
func (a *Axis[T]) Name() string { return a.name }

// Default returns the default value.
func (a *Axis[T]) Default() T { return a.def }

// Values returns the members in declaration order.
func (a *Axis[T]) Values() []T {
	return append([]T(nil), a.order...)
}

// Names returns the members as plain strings in declaration order.
func (a *Axis[T]) Names() []string {
	out := make([]string, len(a.order))
	for i, v := range a.order {
		out[i] = string(v)
	}
	return out
}

// Contains reports whether v is a member.
func (a *Axis[T]) Contains(v T) bool {
	_, ok := a.classes[v]
	return ok
}

// Fragment returns the class fragment of v, or false if v is not a member.
func (a *Axis[T]) Fragment(v T) (string, bool) {
	class, ok := a.classes[v]
	return class, ok
}

// Select resolves v to its fragment. The empty value selects the default.
func (a *Axis[T]) Select(v T) (Selection, error) {
	if v == "" {
		v = a.def
	}
	class, ok := a.classes[v]
	if !ok {
		return Selection{}, errors.ErrUnknownVariant(a.name, string(v), a.Names())
	}
	return Selection{Axis: a.name, Value: string(v), Fragment: class}, nil
}

// SelectString is Select for an untyped value, for callers such as the CLI
// that hold variant names as plain strings.
func (a *Axis[T]) SelectString(v string) (Selection, error) {
	return a.Select(T(v))
}

// Describe returns a type-erased view of the axis.
func (a *Axis[T]) Describe() AxisInfo {
	info := AxisInfo{Name: a.name, Default: string(a.def)}
	for _, v := range a.order {
		info.Options = append(info.Options, OptionInfo{Value: string(v), Class: a.classes[v]})
	}
	return info
}

// Selector is implemented by every Axis regardless of its value type.
type Selector interface {
	Name() string
	Names() []string
	SelectString(v string) (Selection, error)
	Describe() AxisInfo
}

// AxisInfo describes an axis for catalogs and tooling.
type AxisInfo struct {
	Name    string       `json:"name" yaml:"name"`
	Default string       `json:"default" yaml:"default"`
	Options []OptionInfo `json:"options" yaml:"options"`
}

// OptionInfo describes one axis member.
type OptionInfo struct {
	Value string `json:"value" yaml:"value"`
	Class string `json:"class" yaml:"class"`
}

// Selection is the fragment chosen on one axis.
type Selection struct {
	Axis     string
	Value    string
	Fragment string
}
