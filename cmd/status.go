package cmd

import (
	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/spf13/cobra"
)

var statusTransitions bool

var statusCmd = &cobra.Command{
	Use:   "status <deployment-id>",
	Short: "Show a deployment's state",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if statusTransitions {
			var resp struct {
				Transitions []entity.StateTransition `json:"transitions"`
			}
			apiCall("GET", "/api/deployments/"+args[0]+"/transitions", nil, &resp)
			printJSON(resp.Transitions)
			return
		}
		var d entity.Deployment
		apiCall("GET", "/api/deployments/"+args[0], nil, &d)
		printJSON(d)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusTransitions, "transitions", false, "Show the transition log instead of the aggregate")
}
