package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/rouge"
)

// scoreCmd compares a candidate summary with a reference.
var scoreCmd = &cobra.Command{
	Use:   "score <reference> <candidate>",
	Short: "Compute ROUGE-1, ROUGE-2 and ROUGE-L F1 scores",
	Args:  cobra.ExactArgs(2),
	RunE:  runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	reference, err := readDocument(args[0], args[0])
	if err != nil {
		return fmt.Errorf("reference: %w", err)
	}
	candidate, err := readDocument(args[1], args[1])
	if err != nil {
		return fmt.Errorf("candidate: %w", err)
	}

	scores := rouge.Score(reference, candidate)
	if outputFormat == "json" {
		return outputJSON(cmd.OutOrStdout(), scores)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ROUGE-1 %.2f\nROUGE-2 %.2f\nROUGE-L %.2f\n",
		scores.Rouge1, scores.Rouge2, scores.RougeL)
	return nil
}
