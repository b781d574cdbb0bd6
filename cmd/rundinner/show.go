package main

import (
	"github.com/spf13/cobra"
)

type showOptions struct {
	configPath string
	natsURL    string
	output     string
}

func newShowCmd(root *rootOptions) *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show EVENT",
		Short: "Print the stored schedule of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}

			kv, closeStore, err := openStore(cmd.Context(), opts.natsURL, cfg.Store, root.logger)
			if err != nil {
				return err
			}
			defer closeStore()

			snapshot, err := kv.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return writeOutput(cmd.OutOrStdout(), opts.output, snapshot)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file with the store settings")
	flags.StringVar(&opts.natsURL, "nats-url", "nats://127.0.0.1:4222", "NATS server storing the schedule")
	flags.StringVarP(&opts.output, "output", "o", formatText, "output format (text, yaml)")

	return cmd
}
