package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arenax/arenax/internal/media"
	"github.com/arenax/arenax/internal/pkg/httpclient"
)

func newMediaCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Media helpers",
	}

	var scope string

	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to the media endpoint and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			uploader := media.NewUploader(config.MediaClient, httpclient.NewHttpClient())

			url, err := uploader.Upload(cmd.Context(), filepath.Base(args[0]), scope, f)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), url)

			return nil
		},
	}
	upload.Flags().StringVarP(&scope, "scope", "s", "uploads", "storage scope, e.g. logos")

	cmd.AddCommand(upload)

	return cmd
}
