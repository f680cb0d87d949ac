package renderer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/internal/logging"
	"github.com/conneroisu/tessera/internal/registry"
	"github.com/conneroisu/tessera/pkg/ui"
)

func newTestRenderer(t *testing.T, opts ...Option) (*ComponentRenderer, *registry.ComponentRegistry) {
	t.Helper()
	reg := registry.NewComponentRegistry()
	registry.RegisterBuiltins(reg)
	return NewComponentRenderer(reg, opts...), reg
}

// refDroppingChip renders a Button through a delegate that ignores the node
// ref it is given.
func refDroppingChip(props registry.Props, children templ.Component) (templ.Component, error) {
	return ui.Button(ui.ButtonProps{
		NodeRef: ui.NewNamedNodeRef(props.Get("ref")),
		AsChild: func(p ui.ButtonChildProps) templ.Component {
			return ui.ButtonChildProps{Class: p.Class}.RenderAs("span", nil, children)
		},
	}, children), nil
}

func TestNewComponentRenderer(t *testing.T) {
	reg := registry.NewComponentRegistry()
	renderer := NewComponentRenderer(reg)

	assert.NotNil(t, renderer)
	assert.Equal(t, reg, renderer.registry)
	assert.NotNil(t, renderer.logger)
	assert.NotNil(t, renderer.handler)
	assert.Equal(t, DefaultLayout(), renderer.layout)
}

func TestRender(t *testing.T) {
	renderer, _ := newTestRenderer(t)

	html, err := renderer.Render(context.Background(), "Button", registry.StaticProps(map[string]string{
		"variant":  "destructive",
		"id":       "save",
		"children": "Save",
	}))
	require.NoError(t, err)

	el, err := Inspect(html)
	require.NoError(t, err)
	assert.Equal(t, "button", el.Tag)
	assert.Equal(t, "Save", el.Text)
	id, _ := el.Attr("id")
	assert.Equal(t, "save", id)
	class, _ := el.Attr("class")
	assert.Contains(t, class, "bg-destructive")
}

func TestRenderExample(t *testing.T) {
	renderer, _ := newTestRenderer(t)

	html, err := renderer.RenderExample(context.Background(), "Button", "Link as anchor")
	require.NoError(t, err)
	el, err := Inspect(html)
	require.NoError(t, err)
	assert.Equal(t, "a", el.Tag)

	_, err = renderer.RenderExample(context.Background(), "Button", "Missing")
	assert.True(t, errors.IsNotFound(err))
	_, err = renderer.RenderExample(context.Background(), "Card", "Default")
	assert.True(t, errors.IsNotFound(err))
}

func TestRenderErrors(t *testing.T) {
	collector := errors.NewErrorCollector(0)
	renderer, _ := newTestRenderer(t, WithErrorHandler(errors.NewErrorHandler(nil, collector)))
	ctx := context.Background()

	tests := []struct {
		name      string
		component string
		props     map[string]string
		code      string
	}{
		{"not found", "Card", nil, errors.ErrCodeComponentNotFound},
		{"path name", "../Button", nil, errors.ErrCodeInvalidProp},
		{"empty name", "", nil, errors.ErrCodeInvalidProp},
		{"unknown variant", "Button", map[string]string{"variant": "huge"}, errors.ErrCodeUnknownVariant},
		{"missing children", "Alert", nil, errors.ErrCodeMissingChildren},
		{"blank children", "AlertTitle", map[string]string{"children": "   "}, errors.ErrCodeMissingChildren},
		{"missing delegate", "Tooltip", map[string]string{"as": "none"}, errors.ErrCodeMissingDelegate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := renderer.Render(ctx, tt.component, registry.StaticProps(tt.props))
			require.Error(t, err)
			assert.True(t, errors.HasErrorCode(err, tt.code), err.Error())
		})
	}

	assert.Equal(t, len(tests), collector.Count())
}

func TestRenderSanitisesChildren(t *testing.T) {
	renderer, _ := newTestRenderer(t)

	html, err := renderer.Render(context.Background(), "AlertDescription", registry.StaticProps(map[string]string{
		"children": `<p class="italic">Hi <b>there</b></p><script>alert(1)</script><img src=x onerror="alert(2)">`,
	}))
	require.NoError(t, err)

	assert.Contains(t, html, `<p class="italic">Hi <b>there</b></p>`)
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "onerror")
}

func TestRenderContractChecks(t *testing.T) {
	var logs bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LevelWarn, Output: &logs})
	collector := errors.NewErrorCollector(0)

	renderer, reg := newTestRenderer(t,
		WithLogger(logger),
		WithErrorHandler(errors.NewErrorHandler(logger, collector)),
		WithContractChecks(true),
	)
	reg.Register(&registry.ComponentInfo{Name: "Chip", Factory: refDroppingChip})

	html, err := renderer.Render(context.Background(), "Chip", registry.StaticProps(map[string]string{
		"ref":      "chip",
		"children": "New",
	}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<span class="))

	reports := collector.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, errors.ErrCodeNodeRefDropped, reports[0].Code)
	assert.Equal(t, "Button", reports[0].Component)
	assert.Contains(t, logs.String(), "Delegate contract violation")

	// The anchor delegate keeps the ref, so nothing new is reported.
	_, err = renderer.Render(context.Background(), "Button", registry.StaticProps(map[string]string{
		"as": "a", "ref": "docs", "children": "Docs",
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, collector.Count())
}

func TestRenderWithoutContractChecks(t *testing.T) {
	collector := errors.NewErrorCollector(0)
	renderer, reg := newTestRenderer(t, WithErrorHandler(errors.NewErrorHandler(nil, collector)))
	reg.Register(&registry.ComponentInfo{Name: "Chip", Factory: refDroppingChip})

	_, err := renderer.Render(context.Background(), "Chip", registry.StaticProps(map[string]string{"ref": "chip"}))
	require.NoError(t, err)
	assert.Zero(t, collector.Count())
}

func TestBuildWithoutFactory(t *testing.T) {
	renderer, reg := newTestRenderer(t)
	reg.Register(&registry.ComponentInfo{Name: "Ghost"})

	_, err := renderer.Build("Ghost", nil)
	assert.True(t, errors.HasErrorType(err, errors.ErrorTypeInternal))
}

func TestChildren(t *testing.T) {
	assert.Nil(t, Children(""))
	assert.Nil(t, Children(" \n "))
	assert.NotNil(t, Children("x"))
}

func TestRenderWithLayout(t *testing.T) {
	renderer, _ := newTestRenderer(t)

	result := renderer.RenderWithLayout("Button", "<button>Go</button>")

	assert.Contains(t, result, "<!DOCTYPE html>")
	assert.Contains(t, result, "<title>Button - tessera preview</title>")
	assert.Contains(t, result, "<button>Go</button>")
	assert.Contains(t, result, `<script src="https://cdn.tailwindcss.com"></script>`)
	assert.Contains(t, result, "--destructive:")
	assert.Contains(t, result, "WebSocket")
}

func TestLayoutPage(t *testing.T) {
	page := Layout{Title: "Docs <beta>"}.Page("<Button>", "<p>x</p>")

	assert.Contains(t, page, "<title>&lt;Button&gt; - Docs &lt;beta&gt;</title>")
	assert.NotContains(t, page, "cdn.tailwindcss.com")
	assert.NotContains(t, page, "WebSocket")
}

func TestInspect(t *testing.T) {
	el, err := Inspect(`<script>function f(){}</script><button data-ref="r" id="b" class="px-2" disabled onclick="f()">Go <b>now</b></button>`)
	require.NoError(t, err)

	assert.Equal(t, "button", el.Tag)
	assert.Equal(t, []Attr{
		{Name: "data-ref", Value: "r"},
		{Name: "id", Value: "b"},
		{Name: "class", Value: "px-2"},
		{Name: "disabled", Value: ""},
		{Name: "onclick", Value: "f()"},
	}, el.Attrs)
	assert.Equal(t, "Go now", el.Text)

	_, ok := el.Attr("style")
	assert.False(t, ok)

	_, err = Inspect("just text")
	assert.Error(t, err)
}
