package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/tessera/internal/registry"
)

func newListCommand(a *app) *cobra.Command {
	var withVariants bool

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"l"},
		Short:   "List the catalogued components",
		Long: `List every component with its element, delegation mode and examples.

Examples:
  tessera list                    # Table of components
  tessera list --with-variants    # Include the variant axes and their options
  tessera list -o json            # Output as JSON
  tessera list -o yaml            # Output as YAML`,
		Args: cobra.NoArgs,
	}
	flags := AddStandardFlags(listCmd, "output")
	listCmd.Flags().BoolVarP(&withVariants, "with-variants", "v", false, "Include variant axes")

	listCmd.RunE = func(cmd *cobra.Command, args []string) error {
		reg, err := a.registry(cmd.Context())
		if err != nil {
			return err
		}
		components := reg.GetAll()
		out := cmd.OutOrStdout()

		switch flags.OutputFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(components)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(components)
		default:
			return outputListTable(out, components, withVariants)
		}
	}

	return listCmd
}

func outputListTable(out io.Writer, components []*registry.ComponentInfo, withVariants bool) error {
	if len(components) == 0 {
		_, err := fmt.Fprintln(out, "No components found.")
		return err
	}

	title := cases.Title(language.English)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tELEMENT\tDELEGATION\tEXAMPLES\tDESCRIPTION")
	for _, c := range components {
		element := c.Element
		if element == "" {
			element = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			c.Name, element, title.String(string(c.Delegation)), len(c.AllExamples()), c.Description)

		if !withVariants {
			continue
		}
		for _, axis := range c.Axes {
			values := make([]string, 0, len(axis.Options))
			for _, opt := range axis.Options {
				value := opt.Value
				if value == axis.Default {
					value += "*"
				}
				values = append(values, value)
			}
			fmt.Fprintf(w, "  %s\t%s\t\t\t\n", axis.Name, strings.Join(values, ", "))
		}
	}
	return w.Flush()
}
