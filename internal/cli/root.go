// Package cli provides the sqlchat command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sqlchat",
		Short:         "Chat with a blockchain database in natural language",
		Long:          "sqlchat converts natural-language questions into SQL, runs them against the\nblockchain database, and explains the results in plain language.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newChatCmd())
	root.AddCommand(newAskCmd())
	root.AddCommand(newExamplesCmd())
	return root
}
