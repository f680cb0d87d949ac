package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/internal/registry"
	"github.com/conneroisu/tessera/internal/renderer"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		withLayout bool
		inspect    bool
	)

	renderCmd := &cobra.Command{
		Use:     "render <component>",
		Aliases: []string{"r"},
		Short:   "Render a component to HTML",
		Long: `Render a component with the given props and print its markup.

Props are strings; "children" is HTML, sanitized before use.

Examples:
  tessera render Button -p variant=destructive -p children=Delete
  tessera render Button --props '{"as":"a","href":"/docs","children":"Docs"}'
  tessera render Button --props @button.json --layout > button.html
  tessera render Tooltip -e "Anchor trigger" --inspect`,
		Args: cobra.ExactArgs(1),
	}
	flags := AddStandardFlags(renderCmd, "component")
	renderCmd.Flags().BoolVar(&withLayout, "layout", false, "Wrap the markup in a full preview page")
	renderCmd.Flags().BoolVar(&inspect, "inspect", false, "Print the root element's tag, attributes and text as JSON")

	renderCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := flags.ValidateFlags(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}
		if withLayout && inspect {
			return fmt.Errorf("invalid flags: cannot specify both --layout and --inspect")
		}

		ctx := cmd.Context()
		name := args[0]

		reg, err := a.registry(ctx)
		if err != nil {
			return err
		}
		info, ok := reg.Get(name)
		if !ok {
			return errors.ErrComponentNotFound(name)
		}
		r := a.renderer(reg)

		var html string
		if flags.Example != "" {
			html, err = r.RenderExample(ctx, name, flags.Example)
		} else {
			props, perr := flags.ParseProps()
			if perr != nil {
				return perr
			}
			if err := registry.ValidateProps(info, props); err != nil {
				return err
			}
			html, err = r.Render(ctx, name, registry.StaticProps(props))
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case inspect:
			return writeInspection(out, html)
		case withLayout:
			html = r.RenderWithLayout(name, html)
		}
		_, err = fmt.Fprintln(out, html)
		return err
	}

	return renderCmd
}

func writeInspection(out io.Writer, html string) error {
	el, err := renderer.Inspect(html)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(el)
}
