package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Server flags
	Port int
	Host string

	// Component flags
	Props     []string
	PropsJSON string
	Example   string

	// Output flags
	OutputFormat string
}

var outputFormats = []string{"table", "json", "yaml"}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "server":
			addServerFlags(cmd, flags)
		case "component":
			addComponentFlags(cmd, flags)
		case "output":
			addOutputFlags(cmd, flags)
		}
	}

	return flags
}

func addServerFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().IntVar(&flags.Port, "port", 0, "Port to serve on (overrides server.port)")
	cmd.Flags().StringVar(&flags.Host, "host", "", "Host to bind to (overrides server.host)")
	AddFlagValidation(cmd, "port", ValidatePort)
}

func addComponentFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringArrayVarP(&flags.Props, "prop", "p", nil, "Component prop as key=value (repeatable)")
	cmd.Flags().StringVar(&flags.PropsJSON, "props", "", "Component props as a JSON object or @file.json")
	cmd.Flags().StringVarP(&flags.Example, "example", "e", "", "Render a named example or story")
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", "table", "Output format (table|json|yaml)")
	AddFlagValidation(cmd, "output", func(format string) error {
		if !slices.Contains(outputFormats, format) {
			return fmt.Errorf("must be one of: %s", strings.Join(outputFormats, ", "))
		}
		return nil
	})
}

// ParseProps merges the --props object with the --prop pairs, the pairs
// taking precedence.
func (f *StandardFlags) ParseProps() (map[string]string, error) {
	props := make(map[string]string)

	if f.PropsJSON != "" {
		data := []byte(f.PropsJSON)
		if filename, ok := strings.CutPrefix(f.PropsJSON, "@"); ok {
			var err error
			if data, err = os.ReadFile(filename); err != nil {
				return nil, fmt.Errorf("failed to read props file %s: %w", filename, err)
			}
		}
		if err := json.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("invalid JSON in props: %w", err)
		}
	}

	for _, pair := range f.Props {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid prop %q, expected key=value", pair)
		}
		props[strings.TrimSpace(key)] = value
	}

	return props, nil
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	if f.Example != "" && (len(f.Props) > 0 || f.PropsJSON != "") {
		return fmt.Errorf("cannot specify both --example and props")
	}
	return nil
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidatePort checks that portStr is a usable TCP port.
func ValidatePort(portStr string) error {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", portStr)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}

	return nil
}
