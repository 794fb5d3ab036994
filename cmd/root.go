package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rimborso",
	Short: "Early settlement refund claim service",
	Long: `rimborso analyzes consumer credit early settlement documents,
computes the pro-rata refund due under art. 125-sexies TUB and compiles
the demand letter from a provided template.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
