package renderer

import (
	"context"
	"testing"

	"github.com/conneroisu/tessera/internal/registry"
	"github.com/conneroisu/tessera/pkg/reactive"
)

func BenchmarkComponentRenderer_Render(b *testing.B) {
	reg := registry.NewComponentRegistry()
	registry.RegisterBuiltins(reg)
	renderer := NewComponentRenderer(reg)
	props := registry.StaticProps(map[string]string{"variant": "outline", "size": "lg", "class": "px-2", "children": "Go"})
	ctx := context.Background()

	b.ResetTimer()
	for range b.N {
		if _, err := renderer.Render(ctx, "Button", props); err != nil {
			b.Fatal(err)
		}
	}
}

// A built component keeps its resolved class between renders until a prop
// signal changes.
func BenchmarkComponentRenderer_RenderMemoised(b *testing.B) {
	reg := registry.NewComponentRegistry()
	registry.RegisterBuiltins(reg)
	renderer := NewComponentRenderer(reg)
	c, err := renderer.Build("Button", registry.Props{
		"variant":  reactive.NewSignal("outline"),
		"class":    reactive.NewSignal("px-2"),
		"children": reactive.Static("Go"),
	})
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ResetTimer()
	for range b.N {
		if _, err := renderer.RenderComponent(ctx, "Button", c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSanitize(b *testing.B) {
	markup := `<p class="italic">Hello <b>world</b><script>alert(1)</script></p>`
	for range b.N {
		Sanitize(markup)
	}
}
