package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arloliu/rundinner"
)

type combinationOptions struct {
	configPath      string
	teamSize        int
	courses         []string
	noFactorization bool
	output          string
}

type combinationReport struct {
	Participants  int                        `yaml:"participants"`
	NotAssignable int                        `yaml:"notAssignable"`
	Segments      []int                      `yaml:"segments"`
	Combination   *rundinner.CombinationInfo `yaml:"combination"`
}

func newCombinationCmd(root *rootOptions) *cobra.Command {
	opts := &combinationOptions{}

	cmd := &cobra.Command{
		Use:   "combination PARTICIPANTS",
		Short: "Show how many teams and segments a number of participants yields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid participant count %q", args[0])
			}

			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("team-size") {
				cfg.TeamSize = opts.teamSize
			}
			if flags.Changed("courses") {
				cfg.Courses = make([]rundinner.CourseClass, len(opts.courses))
				for i, label := range opts.courses {
					cfg.Courses[i] = rundinner.CourseClass{Label: label}
				}
			}
			if opts.noFactorization {
				cfg.SegmentFactorization = false
			}

			calc, err := rundinner.NewCalculator(&cfg, rundinner.WithLogger(root.logger))
			if err != nil {
				return err
			}

			info, err := calc.Combination(n)
			if err != nil {
				return err
			}
			report := combinationReport{
				Participants:  n,
				NotAssignable: info.RemainderTeams*cfg.TeamSize + n%cfg.TeamSize,
				Segments:      info.Segments(),
				Combination:   info,
			}

			out := cmd.OutOrStdout()
			switch opts.output {
			case formatYAML:
				return writeYAML(out, report)
			case formatText:
				_, err := fmt.Fprintf(out, "%d participants: %s, %d not assignable\n",
					n, info, report.NotAssignable)
				return err
			default:
				return fmt.Errorf("%w: %q", errUnknownFormat, opts.output)
			}
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.IntVar(&opts.teamSize, "team-size", 2, "participants per team")
	flags.StringSliceVar(&opts.courses, "courses", nil, "course labels, comma separated")
	flags.BoolVar(&opts.noFactorization, "no-factorization", false, "use only the base segment size")
	flags.StringVarP(&opts.output, "output", "o", formatText, "output format (text, yaml)")

	return cmd
}
