package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"igoauth/pkg/ui"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintInfo("igoauth", version)
		ui.PrintInfo("Commit", gitCommit)
		ui.PrintInfo("Built", buildDate)
		ui.PrintInfo("Go", runtime.Version())
		ui.PrintInfo("OS/Arch", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
