package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags at release build time.
var (
	version = "(devel)"
	commit  = ""
	date    = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skilltrace %s", version)
		if commit != "" {
			fmt.Printf(" (%.12s", commit)
			if date != "" {
				fmt.Printf(", built %s", date)
			}
			fmt.Print(")")
		}
		fmt.Println()
	},
}
