package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/arloliu/rundinner"
	"github.com/arloliu/rundinner/source"
	"github.com/arloliu/rundinner/store"
)

var errNoSource = errors.New("either --participants or --registrations-subject is required")

type planOptions struct {
	configPath           string
	participantsPath     string
	registrationsStream  string
	registrationsSubject string
	seed                 uint64
	seedKey              string
	natsURL              string
	save                 bool
	output               string
	allowIncomplete      bool
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Form teams, assign courses and build the routes of an event",
		Long: `Computes the teams and their routes from the registered participants.

Participants are read from a YAML file (--participants) or replayed from a JetStream
registration stream (--registrations-subject, requires --nats-url). With --nats-url the
schedule is also stored in a JetStream key-value bucket under the seed key, which is then
required; --save=false skips storing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&opts.participantsPath, "participants", "p", "", "YAML file with the registered participants")
	flags.StringVar(&opts.registrationsStream, "registrations-stream", "REGISTRATIONS", "JetStream stream holding registrations")
	flags.StringVar(&opts.registrationsSubject, "registrations-subject", "", "subject with the registrations of the event")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed; 0 derives the seed from --seed-key")
	flags.StringVar(&opts.seedKey, "seed-key", "", "event identifier used as seed and store key")
	flags.StringVar(&opts.natsURL, "nats-url", "", "NATS server for registrations and schedule storage")
	flags.BoolVar(&opts.save, "save", true, "store the schedule when --nats-url is set")
	flags.StringVarP(&opts.output, "output", "o", formatText, "output format (text, yaml)")
	flags.BoolVar(&opts.allowIncomplete, "allow-incomplete", false, "print schedules with incomplete routes")
	cmd.MarkFlagsMutuallyExclusive("participants", "registrations-subject")

	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOptions, opts *planOptions) error {
	if opts.participantsPath == "" && opts.registrationsSubject == "" {
		return errNoSource
	}
	if opts.registrationsSubject != "" && opts.natsURL == "" {
		return errors.New("--registrations-subject requires --nats-url")
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("seed-key") {
		cfg.SeedKey = opts.seedKey
	}
	if flags.Changed("allow-incomplete") {
		cfg.AllowIncompleteRoutes = opts.allowIncomplete
	}

	ctx := cmd.Context()
	calcOpts := []rundinner.Option{rundinner.WithLogger(root.logger)}

	var src rundinner.ParticipantSource = source.NewYAMLFile(opts.participantsPath)
	if opts.natsURL != "" {
		js, closeConn, err := connect(opts.natsURL)
		if err != nil {
			return err
		}
		defer closeConn()

		if opts.save {
			kv, err := store.NewKV(ctx, js, cfg.Store, root.logger, nil)
			if err != nil {
				return err
			}
			calcOpts = append(calcOpts, rundinner.WithStore(kv))
		}

		if opts.registrationsSubject != "" {
			src, err = source.NewRegistrations(js, source.RegistrationsConfig{
				Stream:  opts.registrationsStream,
				Subject: opts.registrationsSubject,
				Logger:  root.logger,
			})
			if err != nil {
				return err
			}
		}
	}

	calc, err := rundinner.NewCalculator(&cfg, calcOpts...)
	if err != nil {
		return err
	}

	result, err := calc.Calculate(ctx, src)
	if err != nil {
		var incomplete *rundinner.IncompleteScheduleError
		if !errors.As(err, &incomplete) || result == nil || result.Schedule == nil {
			return err
		}
		// Print what was built so that organizers can fix the routes by hand
		werr := writeOutput(cmd.OutOrStdout(), opts.output,
			rundinner.NewScheduleSnapshot(cfg.SeedKey, 0, result.Schedule, result.Teams))

		return errors.Join(err, werr)
	}

	snapshot := result.Snapshot
	if snapshot == nil {
		snapshot = rundinner.NewScheduleSnapshot(cfg.SeedKey, 0, result.Schedule, result.Teams)
	}

	return writeOutput(cmd.OutOrStdout(), opts.output, snapshot)
}
