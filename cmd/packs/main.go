package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/packs/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	env        string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "packs",
		Short: "Resolve fingerprinted asset paths from build manifests",
		Long: `packs maps logical asset names (application.js) to the fingerprinted
paths your bundler emitted (/packs/application-abc123.js).

It reads manifest.json, or manifest+<variant>.json for build variants,
from the public output directory configured in packs.json. In development
it can compile on demand when no dev server is running.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to packs.json (default: nearest packs.json above the working directory)")
	pf.StringVarP(&flags.env, "env", "e", "", "Environment section to load (default: $PACKS_ENV or development)")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(
		lookupCmd(flags),
		compileCmd(flags),
		serveCmd(flags),
		syncCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// exactArgs is cobra.ExactArgs reporting through the error registry.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.New("E160").
				WithDetail(fmt.Sprintf("%s expects %d argument(s), got %d", cmd.Name(), n, len(args))).
				WithSuggestion("Usage: " + cmd.UseLine())
		}
		return nil
	}
}

// minArgs is cobra.MinimumNArgs reporting through the error registry.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return errors.New("E160").
				WithDetail(fmt.Sprintf("%s expects at least %d argument(s)", cmd.Name(), n)).
				WithSuggestion("Usage: " + cmd.UseLine())
		}
		return nil
	}
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
