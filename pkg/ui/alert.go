package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/pkg/reactive"
	"github.com/conneroisu/tessera/pkg/variants"
)

// AlertVariant is the tone of an Alert.
type AlertVariant string

const (
	AlertVariantDefault     AlertVariant = "default"
	AlertVariantDestructive AlertVariant = "destructive"
)

// AlertVariants is the tone axis of Alert.
var AlertVariants = variants.NewAxis("variant", AlertVariantDefault,
	variants.Option[AlertVariant]{Value: AlertVariantDefault, Class: "bg-background text-foreground"},
	variants.Option[AlertVariant]{Value: AlertVariantDestructive, Class: "border-destructive/50 text-destructive dark:border-destructive [&>svg]:text-destructive"},
)

var (
	AlertClass = variants.ClassSpec{
		Name: "Alert",
		Base: "relative w-full rounded-lg border p-4 [&>svg~*]:pl-7 [&>svg+div]:translate-y-[-3px] [&>svg]:absolute [&>svg]:left-4 [&>svg]:top-4 [&>svg]:text-foreground",
		Axes: []variants.Selector{AlertVariants},
	}
	AlertTitleClass = variants.ClassSpec{
		Name: "AlertTitle",
		Base: "mb-1 font-medium leading-none tracking-tight",
	}
	AlertDescriptionClass = variants.ClassSpec{
		Name: "AlertDescription",
		Base: "text-sm [&_p]:leading-relaxed",
	}
)

// AlertProps configures an Alert. Nil fields take their defaults.
type AlertProps struct {
	Variant reactive.Value[AlertVariant]
	Class   reactive.Value[string]
}

// AlertTitleProps configures an AlertTitle.
type AlertTitleProps struct {
	Class reactive.Value[string]
}

// AlertDescriptionProps configures an AlertDescription.
type AlertDescriptionProps struct {
	Class reactive.Value[string]
}

// Container is a component that wraps its required children in one styled
// element. Its class is memoised across renders.
type Container struct {
	name     string
	tag      string
	class    *reactive.Memo[resolved]
	children templ.Component
}

// Alert renders a <div> callout.
func Alert(props AlertProps, children templ.Component) *Container {
	return &Container{
		name:     AlertClass.Name,
		tag:      "div",
		class:    classMemo(AlertClass, props.Class, bindAxis(AlertVariants, props.Variant)),
		children: children,
	}
}

// AlertTitle renders the <h5> heading of an Alert.
func AlertTitle(props AlertTitleProps, children templ.Component) *Container {
	return &Container{
		name:     AlertTitleClass.Name,
		tag:      "h5",
		class:    classMemo(AlertTitleClass, props.Class),
		children: children,
	}
}

// AlertDescription renders the body of an Alert.
func AlertDescription(props AlertDescriptionProps, children templ.Component) *Container {
	return &Container{
		name:     AlertDescriptionClass.Name,
		tag:      "div",
		class:    classMemo(AlertDescriptionClass, props.Class),
		children: children,
	}
}

// Class returns the resolved class.
func (c *Container) Class() (string, error) {
	r := c.class.Get()
	return r.class, r.err
}

func (c *Container) Render(ctx context.Context, w io.Writer) error {
	if c.children == nil {
		return errors.ErrMissingChildren(c.name)
	}
	class, err := c.Class()
	if err != nil {
		return err
	}
	el := &element{tag: c.tag, children: c.children}
	el.set("class", class)
	return el.Render(ctx, w)
}
