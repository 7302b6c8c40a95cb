package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vango-dev/packs/pkg/assets"
)

func lookupCmd(flags *globalFlags) *cobra.Command {
	var (
		variants []string
		strict   bool
		url      bool
	)

	cmd := &cobra.Command{
		Use:   "lookup NAME [NAME...]",
		Short: "Print the fingerprinted path for asset names",
		Long: `Print the fingerprinted path for each logical asset name, one per line.

Missing names print an empty line so output stays aligned with the
arguments. With --strict a missing name fails with the manifest contents.

Examples:
  packs lookup application.js
  packs lookup admin.js --variant admin
  packs lookup application.js --url --env production`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := newLogger(flags.logLevel, flags.logFormat, cmd.ErrOrStderr())
			deps := newStore(cfg, logger, nil, nil)
			resolver := assets.NewResolver(deps.store, cfg.AssetHost)

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			for _, name := range args {
				if strict || url {
					var path string
					if url {
						path, err = resolver.Asset(ctx, name, variants...)
					} else {
						path, err = deps.store.LookupOrFail(ctx, name, variants...)
					}
					if err != nil {
						return err
					}
					fmt.Fprintln(out, path)
					continue
				}

				path, _, err := deps.store.Lookup(ctx, name, variants...)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&variants, "variant", "V", nil, "Manifest variant (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when a name is missing from the manifest")
	cmd.Flags().BoolVar(&url, "url", false, "Prefix paths with the configured asset host (implies --strict)")

	return cmd
}
