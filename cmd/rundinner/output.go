package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/rundinner"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close()
}

// writeText prints one block per team:
//
//	Team 3 - Starter
//	  members: 5 (Ada)*, 6 (Linus)
//	  visits:  4, 8
//	  guests:  1, 7
func writeText(w io.Writer, snapshot *rundinner.ScheduleSnapshot) error {
	var b strings.Builder

	if snapshot.EventID != "" {
		fmt.Fprintf(&b, "Event %s", snapshot.EventID)
		if snapshot.Version > 0 {
			fmt.Fprintf(&b, " (version %d)", snapshot.Version)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d teams, segments %v\n\n", len(snapshot.Teams), snapshot.Combination.Segments())

	for _, team := range snapshot.Teams {
		fmt.Fprintf(&b, "Team %d - %s\n", team.Number, team.Course)
		b.WriteString("  members: ")
		for i, m := range team.Members {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.String())
			if m.Number == team.Host {
				b.WriteString("*")
			}
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "  visits:  %s\n", joinNumbers(team.HostTeams))
		fmt.Fprintf(&b, "  guests:  %s\n", joinNumbers(team.GuestTeams))
	}

	if len(snapshot.Unplaced) > 0 {
		b.WriteString("\nUnplaced:\n")
		for _, p := range snapshot.Unplaced {
			fmt.Fprintf(&b, "  %s\n", p)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func joinNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}

	return strings.Join(parts, ", ")
}
