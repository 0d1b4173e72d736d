package main

import (
	"github.com/spf13/cobra"

	"github.com/arenax/arenax/conf"
)

type options struct {
	configFile string
}

func (o *options) load() (conf.Config, error) {
	return conf.LoadFile(o.configFile)
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "arenax",
		Short: "ArenaX tournament backend",
		Long: `ArenaX serves team registration, mobile money payments, fixtures,
standings and live change notifications for a tournament.

Without a subcommand it starts the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"config file (default is config.yml in ., ./conf or /etc/arenax)")

	root.AddCommand(
		newServeCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(),
		newBuildInfoCommand(),
		newAdminCommand(),
		newMediaCommand(opts),
	)

	return root
}
