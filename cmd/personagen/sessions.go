package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"personagen/internal/session"
)

var (
	sessionsCount int
	sessionsOut   string
	sessionsSeed  int64

	cleanIn  string
	cleanOut string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Generate synthetic terminal session transcripts",
	Long: `Emits fake shell sessions (prompt, command, canned output) as JSONL,
one {"text": ...} object per line. Nothing is executed.

Example:
  personagen sessions --count 1000 --out sessions.jsonl --seed 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var seed *int64
		if cmd.Flags().Changed("seed") {
			seed = &sessionsSeed
		}

		g := session.NewGenerator(seed)
		if err := g.WriteFile(sessionsOut, sessionsCount); err != nil {
			return err
		}
		fmt.Printf("[+] Wrote %d sessions to %s\n", sessionsCount, sessionsOut)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize a JSONL session dataset",
	Long: `Cleans each transcript in a JSONL file: removes filler output,
collapses blank runs, and guarantees a trailing prompt.

Example:
  personagen clean --in sessions.jsonl --out sessions_clean.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.CleanFile(cleanIn, cleanOut); err != nil {
			return err
		}
		fmt.Printf("[+] Cleaned %s into %s\n", cleanIn, cleanOut)
		return nil
	},
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsCount, "count", 100, "Number of sessions to generate")
	sessionsCmd.Flags().StringVar(&sessionsOut, "out", "sessions.jsonl", "Output JSONL path")
	sessionsCmd.Flags().Int64Var(&sessionsSeed, "seed", 0, "Random seed for reproducibility")

	cleanCmd.Flags().StringVar(&cleanIn, "in", "", "Input JSONL path (required)")
	cleanCmd.Flags().StringVar(&cleanOut, "out", "", "Output JSONL path (required)")
	_ = cleanCmd.MarkFlagRequired("in")
	_ = cleanCmd.MarkFlagRequired("out")
}
