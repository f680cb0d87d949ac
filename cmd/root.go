// Package cmd provides the tessera command-line interface.
//
// Configuration is read, highest priority first, from:
//  1. command-line flags (--log-level, --port, ...)
//  2. TESSERA_<SECTION>_<OPTION> environment variables
//  3. the file named by --config or TESSERA_CONFIG_FILE
//  4. .tessera.yml in the working directory
//  5. built-in defaults
package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/tessera/internal/config"
	"github.com/conneroisu/tessera/internal/logging"
	"github.com/conneroisu/tessera/pkg/twmerge"
	"github.com/conneroisu/tessera/pkg/variants"
)

// ConfigFileEnv names a config file to use when --config is not given.
const ConfigFileEnv = "TESSERA_CONFIG_FILE"

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	viper   *viper.Viper
	config  *config.Config
	logger  logging.Logger
	logFile *os.File
}

// NewRootCommand builds the tessera command tree.
func NewRootCommand() *cobra.Command {
	a := &app{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "tessera",
		Short: "Preview and inspect variant-driven UI components",
		Long: `tessera renders a small library of UI components (Alert, Button, Tooltip)
whose classes are resolved from typed variants and merged Tailwind-style.

Quick Start:
  tessera list                         List the components and their variants
  tessera render Button -p variant=destructive -p children=Delete
  tessera resolve Button --variant outline --size sm --class px-8
  tessera serve                        Start the preview server`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is .tessera.yml, can also use "+ConfigFileEnv+")")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.String("log-file", "", "also write JSON logs to this file")
	_ = a.viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = a.viper.BindPFlag("logging.file", flags.Lookup("log-file"))

	rootCmd.AddCommand(
		newListCommand(a),
		newRenderCommand(a),
		newResolveCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// initConfig loads the configuration, builds the logger and installs the
// configured class groups.
func (a *app) initConfig(cmd *cobra.Command) error {
	switch {
	case a.cfgFile != "":
		a.viper.SetConfigFile(a.cfgFile)
	case os.Getenv(ConfigFileEnv) != "":
		a.viper.SetConfigFile(os.Getenv(ConfigFileEnv))
	default:
		a.viper.AddConfigPath(".")
		a.viper.SetConfigType("yaml")
		a.viper.SetConfigName(".tessera")
	}
	config.BindEnv(a.viper)

	if err := a.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		explicit := a.cfgFile != "" || os.Getenv(ConfigFileEnv) != ""
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := config.LoadFrom(a.viper)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.config = cfg

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	a.logger = logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		a.logger = logging.NewMultiLogger(a.logger, logging.NewLogger(&logging.LoggerConfig{
			Level:  level,
			Format: "json",
			Output: f,
		}))
	}
	if used := a.viper.ConfigFileUsed(); used != "" {
		a.logger.Debug(cmd.Context(), "Using config file", "path", used)
	}

	variants.SetMerger(classMerger(cfg.Classes.ExtraGroups))
	return nil
}

// close releases the log file, if one was opened.
func (a *app) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}

// classMerger returns the merger with groups added, in group name order.
func classMerger(groups map[string][]string) *twmerge.Merger {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	opts := make([]twmerge.Option, 0, len(names))
	for _, name := range names {
		opts = append(opts, twmerge.WithGroup(name, groups[name]...))
	}
	return twmerge.New(opts...)
}
