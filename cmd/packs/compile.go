package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/vango-dev/packs/internal/dev"
)

func compileCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Run the compile command if sources changed",
		Long: `Run the configured compileCommand in the project root.

The build is skipped when the source digest matches the last successful
compilation for this environment. Use --force to build anyway.

Examples:
  packs compile
  packs compile --force --env production`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := newLogger(flags.logLevel, flags.logFormat, cmd.ErrOrStderr())
			compiler := dev.NewCompilerFromConfig(cfg, logger, nil)
			out := cmd.OutOrStdout()

			if !force {
				fresh, err := compiler.Fresh()
				if err != nil {
					return err
				}
				if fresh {
					success(out, "Everything's up-to-date. Nothing to do")
					return nil
				}
			}

			info(out, "Compiling...")
			result := compiler.Build(cmd.Context())
			if !result.Success {
				return result.Error
			}
			success(out, "Compiled in %s", result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Compile even if sources are unchanged")

	return cmd
}
