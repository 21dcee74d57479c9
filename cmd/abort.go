package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var abortCmd = &cobra.Command{
	Use:   "abort <deployment-id>",
	Short: "Force-abort a running deployment and roll it back",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		apiCall("POST", "/api/deployments/"+args[0]+"/abort", nil, nil)
		fmt.Println("abort requested")
	},
}
