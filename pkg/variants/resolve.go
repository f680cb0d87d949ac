package variants

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/pkg/twmerge"
)

var merger atomic.Pointer[twmerge.Merger]

func init() {
	merger.Store(twmerge.New())
}

// SetMerger replaces the class merger used by Resolve, for example to add
// project-specific utility groups. A nil m restores the built-in table.
func SetMerger(m *twmerge.Merger) {
	if m == nil {
		m = twmerge.New()
	}
	merger.Store(m)
}

// Resolve concatenates base, the fragment of each selection in order and
// override, then drops every class overridden by a later conflicting one.
// The result depends only on its arguments and the current merger.
func Resolve(base string, selections []Selection, override string) string {
	parts := make([]string, 0, len(selections)+2)
	parts = append(parts, base)
	for _, s := range selections {
		parts = append(parts, s.Fragment)
	}
	parts = append(parts, override)
	return merger.Load().Merge(parts...)
}

// ClassSpec is the fixed class recipe of one component kind: a base class
// list followed by its axes in declaration order.
type ClassSpec struct {
	Name string
	Base string
	Axes []Selector
}

// Resolve checks that selections match the declared axes one for one and in
// order, then resolves the class.
func (s ClassSpec) Resolve(override string, selections ...Selection) (string, error) {
	if len(selections) != len(s.Axes) {
		return "", errors.NewConfigurationError(
			errors.ErrCodeAxisMismatch,
			fmt.Sprintf("expected %d axis selections, got %d", len(s.Axes), len(selections)),
		).WithComponent(s.Name)
	}
	for i, axis := range s.Axes {
		if selections[i].Axis != axis.Name() {
			return "", errors.NewConfigurationError(
				errors.ErrCodeAxisMismatch,
				fmt.Sprintf("selection %d is for axis %q, expected %q", i, selections[i].Axis, axis.Name()),
			).WithComponent(s.Name)
		}
	}
	return Resolve(s.Base, selections, override), nil
}

// ResolveStrings selects each axis by name from values, using the axis
// default for missing entries, and resolves the class.
func (s ClassSpec) ResolveStrings(values map[string]string, override string) (string, error) {
	selections := make([]Selection, 0, len(s.Axes))
	for _, axis := range s.Axes {
		sel, err := axis.SelectString(values[axis.Name()])
		if err != nil {
			return "", errors.Wrap(err, errors.ErrorTypeConfiguration, errors.ErrCodeUnknownVariant, "cannot resolve class").
				WithComponent(s.Name)
		}
		selections = append(selections, sel)
	}
	return s.Resolve(override, selections...)
}

// Default returns the class for every axis at its default and no override.
func (s ClassSpec) Default() string {
	selections := make([]Selection, 0, len(s.Axes))
	for _, axis := range s.Axes {
		sel, _ := axis.SelectString("")
		selections = append(selections, sel)
	}
	return Resolve(s.Base, selections, "")
}

// Fragments returns the unmerged class list of base and selections, which is
// what Resolve merges.
func (s ClassSpec) Fragments(selections ...Selection) string {
	parts := []string{s.Base}
	for _, sel := range selections {
		if sel.Fragment != "" {
			parts = append(parts, sel.Fragment)
		}
	}
	return strings.Join(parts, " ")
}
