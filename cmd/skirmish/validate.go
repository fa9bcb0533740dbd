package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/data"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scenario.yaml>",
	Short: "Check a scenario file and report what it spawns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := data.LoadScenario(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d entities\n", s.Name, len(s.Entities))
		counts := s.Count()
		for _, typ := range component.AllTypes {
			if n := counts[typ]; n > 0 {
				fmt.Fprintf(out, "  %-14s %d\n", typ, n)
			}
		}
		return nil
	},
}
