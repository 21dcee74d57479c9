package cmd

import (
	"fmt"
	"net/url"

	"github.com/shiftgate/shiftgate/internal/entity"
	"github.com/spf13/cobra"
)

var listTarget string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployments",
	Run: func(cmd *cobra.Command, args []string) {
		path := "/api/deployments"
		if listTarget != "" {
			path += "?target=" + url.QueryEscape(listTarget)
		}
		var resp struct {
			Deployments []*entity.Deployment `json:"deployments"`
		}
		apiCall("GET", path, nil, &resp)
		for _, d := range resp.Deployments {
			fmt.Printf("%s\t%s\t%s\t%s\t%s\n", d.ID, d.Config.Target, d.Config.Strategy, d.State, d.Split)
		}
	},
}

func init() {
	listCmd.Flags().StringVarP(&listTarget, "target", "t", "", "Only list deployments for this target")
}
