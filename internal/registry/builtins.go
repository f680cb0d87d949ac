package registry

import (
	"fmt"
	"strconv"

	"github.com/a-h/templ"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/pkg/reactive"
	"github.com/conneroisu/tessera/pkg/ui"
	"github.com/conneroisu/tessera/pkg/variants"
)

// KnownProps lists the prop names the built-in factories read.
var KnownProps = []string{
	"variant", "size", "class", "id", "style", "disabled",
	"as", "href", "children", "onclick", "ref",
}

// RegisterBuiltins adds the tessera component set to r.
func RegisterBuiltins(r *ComponentRegistry) {
	for _, info := range Builtins() {
		r.Register(info)
	}
}

// Builtins returns fresh catalog entries for the tessera component set.
func Builtins() []*ComponentInfo {
	return []*ComponentInfo{
		{
			Name:             ui.AlertClass.Name,
			Description:      "Callout that draws attention to a message.",
			Element:          "div",
			Axes:             describe(ui.AlertClass),
			Delegation:       DelegationNone,
			RequiresChildren: true,
			Class:            &ui.AlertClass,
			Factory:          newAlert,
			Examples: []Example{
				{Name: "Default", Props: map[string]string{"children": "You can add components to your app using the CLI."}},
				{Name: "Destructive", Props: map[string]string{"variant": "destructive", "children": "Your session has expired. Please log in again."}},
			},
		},
		{
			Name:             ui.AlertTitleClass.Name,
			Description:      "Heading of an Alert.",
			Element:          "h5",
			Delegation:       DelegationNone,
			RequiresChildren: true,
			Class:            &ui.AlertTitleClass,
			Factory:          newAlertTitle,
			Examples: []Example{
				{Name: "Default", Props: map[string]string{"children": "Heads up!"}},
			},
		},
		{
			Name:             ui.AlertDescriptionClass.Name,
			Description:      "Body text of an Alert.",
			Element:          "div",
			Delegation:       DelegationNone,
			RequiresChildren: true,
			Class:            &ui.AlertDescriptionClass,
			Factory:          newAlertDescription,
			Examples: []Example{
				{Name: "Default", Props: map[string]string{"children": "<p>You can add components and dependencies to your app.</p>"}},
			},
		},
		{
			Name:        ui.ButtonClass.Name,
			Description: "Clickable button with variant and size styles.",
			Element:     "button",
			Axes:        describe(ui.ButtonClass),
			Delegation:  DelegationOptional,
			Class:       &ui.ButtonClass,
			Factory:     newButton,
			Examples: []Example{
				{Name: "Default", Props: map[string]string{"children": "Button"}},
				{Name: "Destructive", Props: map[string]string{"variant": "destructive", "children": "Delete"}},
				{Name: "Outline small", Props: map[string]string{"variant": "outline", "size": "sm", "children": "Cancel"}},
				{Name: "Icon", Props: map[string]string{"variant": "ghost", "size": "icon", "children": "+"}},
				{Name: "Disabled", Props: map[string]string{"disabled": "true", "children": "Please wait"}},
				{Name: "Link as anchor", Description: "Renders an <a> through the child delegate.", Props: map[string]string{"variant": "link", "as": "a", "href": "https://example.com", "children": "Docs"}},
			},
		},
		{
			Name:        "Tooltip",
			Description: "Attaches to the trigger its delegate renders.",
			Delegation:  DelegationRequired,
			Factory:     newTooltip,
			Examples: []Example{
				{Name: "Button trigger", Props: map[string]string{"children": "Hover me"}},
				{Name: "Anchor trigger", Props: map[string]string{"as": "a", "href": "#top", "class": "underline", "children": "Back to top"}},
			},
		},
	}
}

func describe(spec variants.ClassSpec) []variants.AxisInfo {
	infos := make([]variants.AxisInfo, 0, len(spec.Axes))
	for _, axis := range spec.Axes {
		infos = append(infos, axis.Describe())
	}
	return infos
}

// typed converts a string prop to an axis value type, keeping it reactive.
func typed[T ~string](v reactive.Value[string]) reactive.Value[T] {
	if v == nil {
		return nil
	}
	return reactive.Map(v, func(s string) T { return T(s) })
}

func invalidProp(component, key, value string) error {
	return errors.NewConfigurationError(errors.ErrCodeInvalidProp,
		fmt.Sprintf("unsupported %s value %q", key, value)).WithComponent(component)
}

func nodeRef(id string) *ui.NodeRef {
	if id == "" {
		return nil
	}
	return ui.NewNamedNodeRef(id)
}

func hrefAttrs(href string) templ.Attributes {
	if href == "" {
		return templ.Attributes{}
	}
	return templ.Attributes{"href": string(templ.URL(href))}
}

func newAlert(props Props, children templ.Component) (templ.Component, error) {
	return ui.Alert(ui.AlertProps{
		Variant: typed[ui.AlertVariant](props["variant"]),
		Class:   props["class"],
	}, children), nil
}

func newAlertTitle(props Props, children templ.Component) (templ.Component, error) {
	return ui.AlertTitle(ui.AlertTitleProps{Class: props["class"]}, children), nil
}

func newAlertDescription(props Props, children templ.Component) (templ.Component, error) {
	return ui.AlertDescription(ui.AlertDescriptionProps{Class: props["class"]}, children), nil
}

func newButton(props Props, children templ.Component) (templ.Component, error) {
	disabled := false
	if raw := props.Get("disabled"); raw != "" {
		var err error
		if disabled, err = strconv.ParseBool(raw); err != nil {
			return nil, invalidProp(ui.ButtonClass.Name, "disabled", raw)
		}
	}

	bp := ui.ButtonProps{
		Variant:  typed[ui.ButtonVariant](props["variant"]),
		Size:     typed[ui.ButtonSize](props["size"]),
		Disabled: disabled,
		NodeRef:  nodeRef(props.Get("ref")),
		ID:       props["id"],
		Class:    props["class"],
		Style:    props["style"],
	}
	if body := props.Get("onclick"); body != "" {
		bp.OnClick = ui.Script("tesseraOnClick", body)
	}

	switch as := props.Get("as"); as {
	case "", "button":
	case "a":
		href := props.Get("href")
		bp.AsChild = func(p ui.ButtonChildProps) templ.Component {
			return p.RenderAs("a", hrefAttrs(href), children)
		}
	default:
		return nil, invalidProp(ui.ButtonClass.Name, "as", as)
	}
	return ui.Button(bp, children), nil
}

func newTooltip(props Props, children templ.Component) (templ.Component, error) {
	tp := ui.TooltipProps{
		NodeRef: nodeRef(props.Get("ref")),
		ID:      props["id"],
		Class:   props["class"],
		Style:   props["style"],
	}

	switch as := props.Get("as"); as {
	case "", "button":
		variant, size := props["variant"], props["size"]
		tp.AsChild = func(c ui.TooltipChildProps) templ.Component {
			bp := c.ButtonProps()
			bp.Variant = typed[ui.ButtonVariant](variant)
			bp.Size = typed[ui.ButtonSize](size)
			return ui.Button(bp, children)
		}
	case "a":
		href := props.Get("href")
		tp.AsChild = func(c ui.TooltipChildProps) templ.Component {
			trigger := ui.ButtonChildProps{NodeRef: c.NodeRef, ID: c.ID, Class: c.Class, Style: c.Style}
			return trigger.RenderAs("a", hrefAttrs(href), children)
		}
	case "none":
	default:
		return nil, invalidProp("Tooltip", "as", as)
	}
	return ui.Tooltip(tp), nil
}
