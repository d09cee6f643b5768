package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Zentro/RoRServerBot/internal/rornet"
	"github.com/Zentro/RoRServerBot/internal/version"
)

var commandVersion = &cobra.Command{
	Use:   "version",
	Short: "Print the rorbot version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rorbot %s (%s, %s, %s/%s, protocol %s)\n",
			version.VERSION, version.Commit,
			runtime.Version(), runtime.GOOS, runtime.GOARCH,
			rornet.ProtocolVersion)
	},
}

func init() {
	mainCommand.AddCommand(commandVersion)
}
