// Package renderer turns catalogued components into HTML for the preview
// tools.
//
// Components are built from the registry's factories with string props.
// Child markup supplied as a prop is sanitised before it is embedded. When
// contract checks are enabled, delegates that drop their node ref are
// reported through the error handler instead of failing the render.
package renderer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/internal/logging"
	"github.com/conneroisu/tessera/internal/registry"
	"github.com/conneroisu/tessera/pkg/ui"
)

// ComponentRenderer handles rendering of catalogued components
type ComponentRenderer struct {
	registry       *registry.ComponentRegistry
	logger         logging.Logger
	handler        *errors.ErrorHandler
	contractChecks bool
	layout         Layout
}

// Option configures a ComponentRenderer.
type Option func(*ComponentRenderer)

// WithLogger sets the logger used for render timings.
func WithLogger(logger logging.Logger) Option {
	return func(r *ComponentRenderer) { r.logger = logger }
}

// WithErrorHandler routes render failures and contract reports to h.
func WithErrorHandler(h *errors.ErrorHandler) Option {
	return func(r *ComponentRenderer) { r.handler = h }
}

// WithContractChecks enables delegate contract checks.
func WithContractChecks(enabled bool) Option {
	return func(r *ComponentRenderer) { r.contractChecks = enabled }
}

// WithLayout sets the page layout used by RenderWithLayout.
func WithLayout(layout Layout) Option {
	return func(r *ComponentRenderer) { r.layout = layout }
}

// NewComponentRenderer creates a new component renderer
func NewComponentRenderer(reg *registry.ComponentRegistry, opts ...Option) *ComponentRenderer {
	r := &ComponentRenderer{
		registry: reg,
		layout:   DefaultLayout(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewNopLogger()
	}
	if r.handler == nil {
		r.handler = errors.NewErrorHandler(r.logger, nil)
	}
	return r
}

// Build creates the component name with props. The children prop is parsed
// as sanitised markup; an empty value means no children.
func (r *ComponentRenderer) Build(name string, props registry.Props) (templ.Component, error) {
	if err := validateComponentName(name); err != nil {
		return nil, err
	}

	info, exists := r.registry.Get(name)
	if !exists {
		return nil, errors.ErrComponentNotFound(name)
	}
	if info.Factory == nil {
		return nil, errors.NewInternalError(errors.ErrCodeInternalError, "component has no factory", nil).
			WithComponent(name)
	}

	return info.Factory(props, Children(props.Get("children")))
}

// Render builds and renders name with props.
func (r *ComponentRenderer) Render(ctx context.Context, name string, props registry.Props) (string, error) {
	c, err := r.Build(name, props)
	if err != nil {
		r.handler.Handle(ctx, err)
		return "", err
	}
	return r.RenderComponent(ctx, name, c)
}

// RenderExample renders the example or story named example of component name.
func (r *ComponentRenderer) RenderExample(ctx context.Context, name, example string) (string, error) {
	info, exists := r.registry.Get(name)
	if !exists {
		return "", errors.ErrComponentNotFound(name)
	}
	ex, ok := info.Example(example)
	if !ok {
		return "", errors.NewValidationError(errors.ErrCodeComponentNotFound,
			fmt.Sprintf("example %q not found", example)).WithComponent(name)
	}
	return r.Render(ctx, name, registry.StaticProps(ex.Props))
}

// RenderComponent renders an already built component. name is used for
// logging and error reports.
func (r *ComponentRenderer) RenderComponent(ctx context.Context, name string, c templ.Component) (string, error) {
	op := logging.StartOperation(r.logger.WithComponent(name), "render")

	if r.contractChecks {
		ctx = ui.WithContractChecks(ctx, func(err error) {
			r.handler.Handle(ctx, err)
		})
	}

	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		op.EndWithError(ctx, err)
		r.handler.Handle(ctx, err)
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}

	op.End(ctx)
	return sb.String(), nil
}

var (
	childPolicyOnce sync.Once
	childPolicy     *bluemonday.Policy
)

func childSanitizer() *bluemonday.Policy {
	childPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		childPolicy = policy
	})
	return childPolicy
}

// Sanitize strips scripts, event handlers and unsafe URLs from markup.
func Sanitize(markup string) string {
	return childSanitizer().Sanitize(markup)
}

// Children returns markup as a child component, or nil when it is blank.
func Children(markup string) templ.Component {
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	return templ.Raw(Sanitize(markup))
}

// validateComponentName accepts identifiers only, so names can be used in
// URLs and logs as-is.
func validateComponentName(name string) error {
	if name == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidProp, "empty component name")
	}
	for i, c := range name {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return errors.NewValidationError(errors.ErrCodeInvalidProp,
				fmt.Sprintf("invalid component name %q", name))
		}
	}
	return nil
}
