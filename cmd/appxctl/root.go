package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	hivePath   string
	mountName  string
	configFile string
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
)

var cfg = viper.New()

var rootCmd = &cobra.Command{
	Use:   "appxctl",
	Short: "Query the AppX package repository",
	Long: `appxctl lists the package families and packages recorded in the
Windows AppX package repository and reads the attributes stored for each
package. It reads the live registry on Windows, or an offline hive file
given with --hive on any platform.`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return loadConfig() },
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&hivePath, "hive", "", "Read from an offline hive file instead of the registry")
	pf.StringVar(&mountName, "mount", "HKCR", "Root key the hive file is mounted at")
	pf.StringVar(&configFile, "config", "", "Config file (default: ./appxctl.yaml or $XDG_CONFIG_HOME/appxctl/appxctl.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")

	for _, name := range []string{"hive", "mount", "verbose", "quiet", "json", "no-color"} {
		_ = cfg.BindPFlag(name, pf.Lookup(name))
	}
	cfg.SetEnvPrefix("APPXCTL")
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()
}

// loadConfig merges the config file and APPXCTL_* environment into the
// global flags. Flags given on the command line win.
func loadConfig() error {
	if configFile != "" {
		cfg.SetConfigFile(configFile)
	} else {
		cfg.SetConfigName("appxctl")
		cfg.SetConfigType("yaml")
		cfg.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.AddConfigPath(dir + string(os.PathSeparator) + "appxctl")
		}
	}
	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	hivePath = cfg.GetString("hive")
	mountName = cfg.GetString("mount")
	verbose = cfg.GetBool("verbose")
	quiet = cfg.GetBool("quiet")
	jsonOut = cfg.GetBool("json")
	noColor = cfg.GetBool("no-color")

	printVerbose("Config: %s\n", cfg.ConfigFileUsed())
	return nil
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints err to stderr. An absent identity was already
// reported by `has`, so only the exit status carries it.
func reportError(err error) {
	if errors.Is(err, errAbsent) {
		return
	}
	printError("%v\n", err)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprint(os.Stderr, errorLabel("Error: ")+fmt.Sprintf(format, args...))
}

// printVerbose prints a verbose message to stderr if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printHeader prints a styled section header unless quiet or emitting JSON
func printHeader(title string) {
	if !quiet && !jsonOut {
		fmt.Fprintln(os.Stdout, header(title))
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
