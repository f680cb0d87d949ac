package ui

import (
	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/pkg/reactive"
	"github.com/conneroisu/tessera/pkg/variants"
)

// resolved is the outcome of one class resolution.
type resolved struct {
	class string
	err   error
}

// axisBinding reads one axis from a reactive prop.
type axisBinding struct {
	dep    reactive.Tracker
	choose func() (variants.Selection, error)
}

func bindAxis[T ~string](axis *variants.Axis[T], v reactive.Value[T]) axisBinding {
	var dep reactive.Tracker
	if v != nil {
		dep = v
	}
	return axisBinding{
		dep: dep,
		choose: func() (variants.Selection, error) {
			return axis.Select(reactive.Get(v, axis.Default()))
		},
	}
}

// classMemo resolves spec's class whenever override or an axis prop changes.
func classMemo(spec variants.ClassSpec, override reactive.Value[string], axes ...axisBinding) *reactive.Memo[resolved] {
	deps := make([]reactive.Tracker, 0, len(axes)+1)
	if override != nil {
		deps = append(deps, override)
	}
	for _, a := range axes {
		deps = append(deps, a.dep)
	}

	return reactive.NewMemo(func() resolved {
		selections := make([]variants.Selection, 0, len(axes))
		for _, a := range axes {
			sel, err := a.choose()
			if err != nil {
				if ce, ok := err.(*errors.ComponentError); ok {
					ce.WithComponent(spec.Name)
				}
				return resolved{err: err}
			}
			selections = append(selections, sel)
		}
		class, err := spec.Resolve(reactive.Get(override, ""), selections...)
		return resolved{class: class, err: err}
	}, deps...)
}
