package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X code-review-service/internal/cmd.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the reviewd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("reviewd " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
