package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/tessera/internal/errors"
	"github.com/conneroisu/tessera/pkg/variants"
)

// Resolution is the JSON output of the resolve command.
type Resolution struct {
	Component string            `json:"component,omitempty"`
	Variants  map[string]string `json:"variants,omitempty"`
	Override  string            `json:"override,omitempty"`
	Class     string            `json:"class"`
}

func newResolveCommand(a *app) *cobra.Command {
	var (
		axes      []string
		override  string
		base      string
		fragments []string
		asJSON    bool
	)

	resolveCmd := &cobra.Command{
		Use:   "resolve [component]",
		Short: "Resolve the class list for a set of variants",
		Long: `Print the class list a component renders with for the given variants,
after Tailwind conflict resolution. Without a component, --base, --fragment
and --class are merged directly.

Examples:
  tessera resolve Button --variant outline --size sm
  tessera resolve Button -a variant=ghost --class "px-8"
  tessera resolve --base "px-4 py-2" --fragment "px-6" --class "p-3"`,
		Args: cobra.MaximumNArgs(1),
	}
	resolveCmd.Flags().StringArrayVarP(&axes, "axis", "a", nil, "Variant as axis=value (repeatable)")
	resolveCmd.Flags().String("variant", "", "Shorthand for --axis variant=<value>")
	resolveCmd.Flags().String("size", "", "Shorthand for --axis size=<value>")
	resolveCmd.Flags().StringVarP(&override, "class", "c", "", "Caller class appended last")
	resolveCmd.Flags().StringVar(&base, "base", "", "Base classes (without a component)")
	resolveCmd.Flags().StringArrayVar(&fragments, "fragment", nil, "Variant fragment (without a component, repeatable)")
	resolveCmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	resolveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		res := Resolution{Override: override}

		if len(args) == 0 {
			if len(axes) > 0 || cmd.Flags().Changed("variant") || cmd.Flags().Changed("size") {
				return fmt.Errorf("invalid flags: variants need a component")
			}
			selections := make([]variants.Selection, 0, len(fragments))
			for _, f := range fragments {
				selections = append(selections, variants.Selection{Fragment: f})
			}
			res.Class = variants.Resolve(base, selections, override)
			return writeResolution(cmd, res, asJSON)
		}

		if base != "" || len(fragments) > 0 {
			return fmt.Errorf("invalid flags: --base and --fragment cannot be used with a component")
		}

		values, err := axisValues(cmd, axes)
		if err != nil {
			return err
		}

		reg, err := a.registry(cmd.Context())
		if err != nil {
			return err
		}
		info, ok := reg.Get(args[0])
		if !ok {
			return errors.ErrComponentNotFound(args[0])
		}
		if info.Class == nil {
			return errors.NewValidationError(errors.ErrCodeInvalidProp,
				"component has no classes of its own").WithComponent(info.Name)
		}
		for name := range values {
			if _, ok := info.Axis(name); !ok {
				return errors.NewValidationError(errors.ErrCodeInvalidProp,
					fmt.Sprintf("unknown axis %q", name)).WithComponent(info.Name)
			}
		}

		res.Component = info.Name
		res.Variants = values
		if res.Class, err = info.Class.ResolveStrings(values, override); err != nil {
			return err
		}
		return writeResolution(cmd, res, asJSON)
	}

	return resolveCmd
}

// axisValues collects --axis pairs and the --variant and --size shorthands.
func axisValues(cmd *cobra.Command, pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs)+2)
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid axis %q, expected axis=value", pair)
		}
		values[name] = value
	}
	for _, name := range []string{"variant", "size"} {
		if cmd.Flags().Changed(name) {
			value, _ := cmd.Flags().GetString(name)
			values[name] = value
		}
	}
	return values, nil
}

func writeResolution(cmd *cobra.Command, res Resolution, asJSON bool) error {
	out := cmd.OutOrStdout()
	if !asJSON {
		_, err := fmt.Fprintln(out, res.Class)
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
