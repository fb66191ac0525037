package main

import (
	"fmt"

	"github.com/lunahealth/luna/internal/common"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Luna version %s\n", common.GetFullVersion())
	},
}
