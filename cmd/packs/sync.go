package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/vango-dev/packs/internal/s3sync"
)

func syncCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download manifests from S3",
		Long: `Download manifest.json and manifest+<variant>.json from the bucket
configured in the s3 section of packs.json into the public output directory.

Credentials are read from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  packs sync --env production`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			logger := newLogger(flags.logLevel, flags.logFormat, cmd.ErrOrStderr())

			syncer, err := s3sync.NewFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			written, err := syncer.Sync(cmd.Context())
			if err != nil {
				return err
			}

			printSynced(cmd.OutOrStdout(), written)
			return nil
		},
	}

	return cmd
}

func printSynced(out io.Writer, written []string) {
	for _, path := range written {
		info(out, "%s", path)
	}
	success(out, "Synced %d manifest(s)", len(written))
}
