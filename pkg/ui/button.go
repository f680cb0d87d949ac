package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/tessera/pkg/reactive"
	"github.com/conneroisu/tessera/pkg/variants"
)

// ButtonVariant is the visual style of a Button.
type ButtonVariant string

const (
	ButtonVariantDefault     ButtonVariant = "default"
	ButtonVariantDestructive ButtonVariant = "destructive"
	ButtonVariantOutline     ButtonVariant = "outline"
	ButtonVariantSecondary   ButtonVariant = "secondary"
	ButtonVariantGhost       ButtonVariant = "ghost"
	ButtonVariantLink        ButtonVariant = "link"
)

// ButtonSize is the size of a Button.
type ButtonSize string

const (
	ButtonSizeDefault ButtonSize = "default"
	ButtonSizeSm      ButtonSize = "sm"
	ButtonSizeLg      ButtonSize = "lg"
	ButtonSizeIcon    ButtonSize = "icon"
)

var (
	ButtonVariants = variants.NewAxis("variant", ButtonVariantDefault,
		variants.Option[ButtonVariant]{Value: ButtonVariantDefault, Class: "bg-primary text-primary-foreground hover:bg-primary/90"},
		variants.Option[ButtonVariant]{Value: ButtonVariantDestructive, Class: "bg-destructive text-destructive-foreground hover:bg-destructive/90"},
		variants.Option[ButtonVariant]{Value: ButtonVariantOutline, Class: "border border-input bg-background hover:bg-accent hover:text-accent-foreground"},
		variants.Option[ButtonVariant]{Value: ButtonVariantSecondary, Class: "bg-secondary text-secondary-foreground hover:bg-secondary/80"},
		variants.Option[ButtonVariant]{Value: ButtonVariantGhost, Class: "hover:bg-accent hover:text-accent-foreground"},
		variants.Option[ButtonVariant]{Value: ButtonVariantLink, Class: "text-primary underline-offset-4 hover:underline"},
	)

	ButtonSizes = variants.NewAxis("size", ButtonSizeDefault,
		variants.Option[ButtonSize]{Value: ButtonSizeDefault, Class: "h-10 px-4 py-2"},
		variants.Option[ButtonSize]{Value: ButtonSizeSm, Class: "h-9 rounded-md px-3"},
		variants.Option[ButtonSize]{Value: ButtonSizeLg, Class: "h-11 rounded-md px-8"},
		variants.Option[ButtonSize]{Value: ButtonSizeIcon, Class: "h-10 w-10"},
	)

	ButtonClass = variants.ClassSpec{
		Name: "Button",
		Base: "inline-flex items-center justify-center gap-2 whitespace-nowrap rounded-md text-sm font-medium ring-offset-background transition-colors focus-visible:outline-none focus-visible:ring-2 focus-visible:ring-ring focus-visible:ring-offset-2 disabled:pointer-events-none disabled:opacity-50 [&_svg]:pointer-events-none [&_svg]:size-4 [&_svg]:shrink-0",
		Axes: []variants.Selector{ButtonVariants, ButtonSizes},
	}
)

// ButtonProps configures a Button. Nil values take their defaults: the axis
// defaults, no id, no class override and no style.
type ButtonProps struct {
	Variant  reactive.Value[ButtonVariant]
	Size     reactive.Value[ButtonSize]
	Disabled bool
	OnClick  *templ.ComponentScript
	NodeRef  *NodeRef
	ID       reactive.Value[string]
	Class    reactive.Value[string]
	Style    reactive.Value[string]

	// AsChild, when set, renders in place of the default <button>.
	AsChild ButtonDelegate
}

// ButtonChildProps is everything a Button would put on its own element.
// A delegate receives exactly the values the default element would carry.
type ButtonChildProps struct {
	NodeRef  *NodeRef
	ID       string
	Class    string
	Style    string
	Disabled bool
	OnClick  *templ.ComponentScript
}

// ButtonDelegate renders a Button's child props as some other markup.
type ButtonDelegate func(props ButtonChildProps) templ.Component

// Render emits the props on a <button> around children, which may be nil.
func (p ButtonChildProps) Render(children templ.Component) templ.Component {
	return p.RenderAs("button", nil, children)
}

// RenderAs emits the props on an arbitrary element. attrs are written after
// the props, sorted by name.
func (p ButtonChildProps) RenderAs(tag string, attrs templ.Attributes, children templ.Component) templ.Component {
	el := &element{
		tag:      tag,
		ref:      p.NodeRef,
		script:   p.OnClick,
		children: children,
	}
	el.setIf("id", p.ID)
	el.set("class", p.Class)
	el.setIf("style", p.Style)
	el.flag("disabled", p.Disabled)
	el.spread(attrs)
	return el
}

// ButtonComponent is a rendered Button. Its class is memoised across renders
// and recomputed only when the variant, size or class props change.
type ButtonComponent struct {
	props    ButtonProps
	class    *reactive.Memo[resolved]
	children templ.Component
}

// Button renders a <button>, or hands its child props to props.AsChild.
func Button(props ButtonProps, children templ.Component) *ButtonComponent {
	return &ButtonComponent{
		props: props,
		class: classMemo(ButtonClass, props.Class,
			bindAxis(ButtonVariants, props.Variant),
			bindAxis(ButtonSizes, props.Size),
		),
		children: children,
	}
}

// Class returns the resolved class.
func (b *ButtonComponent) Class() (string, error) {
	r := b.class.Get()
	return r.class, r.err
}

// ChildProps builds the bundle for the current prop values.
func (b *ButtonComponent) ChildProps() (ButtonChildProps, error) {
	class, err := b.Class()
	if err != nil {
		return ButtonChildProps{}, err
	}
	return ButtonChildProps{
		NodeRef:  b.props.NodeRef,
		ID:       reactive.Get(b.props.ID, ""),
		Class:    class,
		Style:    reactive.Get(b.props.Style, ""),
		Disabled: b.props.Disabled,
		OnClick:  b.props.OnClick,
	}, nil
}

func (b *ButtonComponent) Render(ctx context.Context, w io.Writer) error {
	props, err := b.ChildProps()
	if err != nil {
		return err
	}
	if b.props.AsChild != nil {
		return renderDelegate(ctx, w, ButtonClass.Name, props.NodeRef, b.props.AsChild(props))
	}
	return props.Render(b.children).Render(ctx, w)
}
