package cmd

import (
	"fmt"

	"github.com/shiftgate/shiftgate/internal/server/routes"
	"github.com/spf13/cobra"
)

var deployFlags struct {
	target     string
	strategy   string
	artifact   string
	steps      []int
	window     string
	timeout    string
	maxErrRate float64
	maxLatency string
	headroom   float64
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Start a deployment",
	Run: func(cmd *cobra.Command, args []string) {
		req := routes.DeploymentRequest{
			Target:                deployFlags.target,
			Strategy:              deployFlags.strategy,
			Artifact:              deployFlags.artifact,
			Steps:                 deployFlags.steps,
			ObservationWindow:     deployFlags.window,
			Timeout:               deployFlags.timeout,
			MaxErrorRate:          deployFlags.maxErrRate,
			MaxLatencyP99:         deployFlags.maxLatency,
			MinSaturationHeadroom: deployFlags.headroom,
		}

		var resp struct {
			ID string `json:"id"`
		}
		apiCall("POST", "/api/deployments", req, &resp)
		fmt.Println(resp.ID)
	},
}

func init() {
	deployCmd.Flags().StringVarP(&deployFlags.target, "target", "t", "", "Target service identifier")
	deployCmd.Flags().StringVar(&deployFlags.strategy, "strategy", "canary", "Rollout strategy (blue-green|canary)")
	deployCmd.Flags().StringVarP(&deployFlags.artifact, "artifact", "a", "", "Artifact reference (image tag or build context dir)")
	deployCmd.Flags().IntSliceVar(&deployFlags.steps, "steps", []int{10, 25, 50, 75, 100}, "Canary traffic steps")
	deployCmd.Flags().StringVar(&deployFlags.window, "window", "", "Observation window per step (e.g. 30s)")
	deployCmd.Flags().StringVar(&deployFlags.timeout, "timeout", "", "Overall deployment timeout (e.g. 10m)")
	deployCmd.Flags().Float64Var(&deployFlags.maxErrRate, "max-error-rate", 0, "Max error rate threshold")
	deployCmd.Flags().StringVar(&deployFlags.maxLatency, "max-latency-p99", "", "Max p99 latency threshold (e.g. 500ms)")
	deployCmd.Flags().Float64Var(&deployFlags.headroom, "min-headroom", 0, "Min saturation headroom threshold")
	_ = deployCmd.MarkFlagRequired("target")
	_ = deployCmd.MarkFlagRequired("artifact")
}
