package ui

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/tessera/internal/errors"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

type attribute struct {
	name    string
	value   string
	boolean bool
}

// element writes one HTML element. Attributes are written in the order they
// were added.
type element struct {
	tag      string
	ref      *NodeRef
	attrs    []attribute
	script   *templ.ComponentScript
	children templ.Component
}

func (e *element) set(name, value string) {
	e.attrs = append(e.attrs, attribute{name: name, value: value})
}

// setIf adds name only when value is non-empty.
func (e *element) setIf(name, value string) {
	if value != "" {
		e.set(name, value)
	}
}

func (e *element) flag(name string, on bool) {
	if on {
		e.attrs = append(e.attrs, attribute{name: name, boolean: true})
	}
}

// spread adds attrs sorted by name. Boolean false and nil values are skipped,
// as is any name the element already owns: the bundle wins over attrs.
func (e *element) spread(attrs templ.Attributes) {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if e.owns(name) {
			continue
		}
		switch v := attrs[name].(type) {
		case nil:
		case bool:
			e.flag(name, v)
		case string:
			e.set(name, v)
		default:
			e.set(name, fmt.Sprint(v))
		}
	}
}

// owns reports whether name is already written by the element itself.
func (e *element) owns(name string) bool {
	name = strings.ToLower(name)
	switch {
	case name == "data-ref" && e.ref != nil:
		return true
	case name == "onclick" && e.script != nil:
		return true
	}
	for _, a := range e.attrs {
		if a.name == name {
			return true
		}
	}
	return false
}

func (e *element) Render(ctx context.Context, w io.Writer) error {
	if !validTag(e.tag) {
		return errors.NewConfigurationError(errors.ErrCodeInvalidProp, fmt.Sprintf("invalid element tag %q", e.tag))
	}
	if e.script != nil {
		if err := templ.RenderScriptItems(ctx, w, *e.script); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, "<"+e.tag); err != nil {
		return err
	}
	if e.ref != nil {
		e.ref.Attach(e.tag)
		if err := writeAttr(w, attribute{name: "data-ref", value: e.ref.ID()}); err != nil {
			return err
		}
	}
	for _, a := range e.attrs {
		if err := writeAttr(w, a); err != nil {
			return err
		}
	}
	if e.script != nil {
		// Call is produced by templ and is already attribute-safe.
		if _, err := io.WriteString(w, ` onclick="`+e.script.Call+`"`); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if voidElements[e.tag] {
		return nil
	}

	if e.children != nil {
		if err := e.children.Render(ctx, w); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</"+e.tag+">")
	return err
}

func writeAttr(w io.Writer, a attribute) error {
	if !validAttrName(a.name) {
		return errors.NewConfigurationError(errors.ErrCodeInvalidProp, fmt.Sprintf("invalid attribute name %q", a.name))
	}
	if a.boolean {
		_, err := io.WriteString(w, " "+a.name)
		return err
	}
	_, err := io.WriteString(w, " "+a.name+`="`+templ.EscapeString(a.value)+`"`)
	return err
}

func validTag(tag string) bool {
	if tag == "" {
		return false
	}
	for i, c := range tag {
		switch {
		case c >= 'a' && c <= 'z':
		case (c >= '0' && c <= '9') || c == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		switch c {
		case ' ', '"', '\'', '>', '/', '=', '<', '\t', '\n', '\f', '\r':
			return false
		}
	}
	return true
}
