package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/structdiff/structdiff/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of structdiff",
		Run: func(command *cobra.Command, args []string) {
			fmt.Println(version.Version)
		},
	}
}
