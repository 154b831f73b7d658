package cli

import (
	"github.com/spf13/cobra"
)

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List example questions the dataset can answer",
		Run: func(_ *cobra.Command, _ []string) {
			printExampleQuestions()
		},
	}
}
