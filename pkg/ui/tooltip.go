package ui

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/pkg/reactive"
)

// TooltipProps configures a Tooltip. AsChild is required.
type TooltipProps struct {
	NodeRef *NodeRef
	ID      reactive.Value[string]
	Class   reactive.Value[string]
	Style   reactive.Value[string]
	AsChild TooltipDelegate
}

// TooltipChildProps is what a Tooltip hands its delegate.
type TooltipChildProps struct {
	NodeRef *NodeRef
	ID      string
	Class   string
	Style   string
}

// TooltipDelegate renders the trigger a Tooltip is attached to.
type TooltipDelegate func(props TooltipChildProps) templ.Component

// ButtonProps forwards the tooltip props to a Button, the usual trigger.
func (p TooltipChildProps) ButtonProps() ButtonProps {
	return ButtonProps{
		NodeRef: p.NodeRef,
		ID:      reactive.Static(p.ID),
		Class:   reactive.Static(p.Class),
		Style:   reactive.Static(p.Style),
	}
}

// Tooltip has no markup of its own; it always renders through AsChild.
func Tooltip(props TooltipProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if props.AsChild == nil {
			return errors.ErrMissingDelegate("Tooltip")
		}
		child := TooltipChildProps{
			NodeRef: props.NodeRef,
			ID:      reactive.Get(props.ID, ""),
			Class:   reactive.Get(props.Class, ""),
			Style:   reactive.Get(props.Style, ""),
		}
		return renderDelegate(ctx, w, "Tooltip", child.NodeRef, props.AsChild(child))
	})
}
