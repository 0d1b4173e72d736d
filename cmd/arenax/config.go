package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/andreazorzetto/yh/highlight"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arenax/arenax/conf"
	"github.com/arenax/arenax/internal/eventbus"
	"github.com/arenax/arenax/internal/media"
	"github.com/arenax/arenax/internal/pkg/xcache"
)

func newConfigCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	var format string

	preview := &cobra.Command{
		Use:   "preview",
		Short: "Preview configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			output, err := renderConfig(config, format)
			if err != nil {
				return fmt.Errorf("failed to preview config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), output)

			return nil
		},
	}
	preview.Flags().StringVarP(&format, "format", "f", "yml", "output format (yml, json)")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := opts.load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			problems := validateConfig(config)
			if len(problems) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid!")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Configuration validation failed:")

			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", p)
			}

			return errors.New("invalid configuration")
		},
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific config value, e.g. server.port",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := conf.Get(opts.configFile, args[0])
			if err != nil {
				return err
			}

			s, err := cast.ToStringE(value)
			if err != nil {
				// Nested sections print as YAML.
				b, merr := yaml.Marshal(value)
				if merr != nil {
					return merr
				}

				s = strings.TrimRight(string(b), "\n")
			}

			fmt.Fprintln(cmd.OutOrStdout(), s)

			return nil
		},
	}

	cmd.AddCommand(preview, validate, get)

	return cmd
}

func renderConfig(config conf.Config, format string) (string, error) {
	switch format {
	case "json":
		b, err := prettyjson.Marshal(config)
		if err != nil {
			return "", err
		}

		return string(b), nil
	case "yml", "yaml":
		b, err := yaml.Marshal(config)
		if err != nil {
			return "", err
		}

		return highlight.Highlight(bytes.NewBuffer(b))
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func validateConfig(config conf.Config) []string {
	var problems []string

	if config.APIServer.Port <= 0 || config.APIServer.Port > 65535 {
		problems = append(problems, "server.port must be between 1 and 65535")
	}

	if config.DB.DSN == "" {
		problems = append(problems, "db.dsn cannot be empty")
	}

	if config.Log.Name == "" {
		problems = append(problems, "log.name cannot be empty")
	}

	if config.APIServer.CORS.Enabled && len(config.APIServer.CORS.AllowedOrigins) == 0 {
		problems = append(problems, "server.cors.allowed_origins cannot be empty when CORS is enabled")
	}

	if config.EventBus.Mode == eventbus.ModeRedis && !config.EventBus.Redis.Configured() {
		problems = append(problems, "eventbus.redis.addr or eventbus.redis.url is required in redis mode")
	}

	if (config.Cache.Mode == xcache.ModeRedis || config.Cache.Mode == xcache.ModeTwoLevel) && !config.Cache.Redis.Configured() {
		problems = append(problems, "cache.redis.addr or cache.redis.url is required for mode "+config.Cache.Mode)
	}

	if !config.Payment.Configured() {
		problems = append(problems, "payment.base_url and payment.secret_key are required to take payments")
	}

	if (config.Biz.Admin.PasswordHash == "") != (config.Biz.Admin.SecretKey == "") {
		problems = append(problems, "biz.admin.password_hash and biz.admin.secret_key must be set together")
	}

	switch config.MediaStorage.Type {
	case media.StorageTypeS3:
		if config.MediaStorage.S3.BucketName == "" {
			problems = append(problems, "media.s3.bucket_name cannot be empty")
		}
	case media.StorageTypeGcs:
		if config.MediaStorage.GCS.BucketName == "" {
			problems = append(problems, "media.gcs.bucket_name cannot be empty")
		}
	case media.StorageTypeFs:
		if config.MediaStorage.Directory == "" {
			problems = append(problems, "media.directory cannot be empty")
		}
	}

	return problems
}
