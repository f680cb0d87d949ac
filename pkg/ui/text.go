package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Text renders s as escaped text.
func Text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// Fragment renders each non-nil child in order.
func Fragment(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range children {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Script builds a click handler that calls a named global function with body.
// name must be a valid JavaScript identifier.
func Script(name, body string) *templ.ComponentScript {
	return &templ.ComponentScript{
		Name:     name,
		Function: "function " + name + "(){" + body + "}",
		Call:     templ.EscapeString(name + "()"),
	}
}
