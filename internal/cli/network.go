package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/abiemit/internal/cli/render"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

// NewNetworkCmd creates the network command
func NewNetworkCmd() *cobra.Command {
	var (
		probe      bool
		yamlOutput bool
	)

	cmd := &cobra.Command{
		Use:   "network",
		Short: "Show the deployment network profile",
		Long: `Show the network profile assembled from the environment: RPC endpoint,
deployer account and block explorer settings.

With --probe, the RPC endpoint is queried for its chain ID.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DescribeNetwork.Run(cmd.Context(), usecase.DescribeNetworkParams{Probe: probe})
			if err != nil {
				return err
			}

			renderer := render.NewNetworkRenderer(cmd.OutOrStdout())
			switch {
			case app.Config.JSON:
				return renderer.RenderJSON(result)
			case yamlOutput:
				return renderer.RenderYAML(result)
			default:
				return renderer.Render(result)
			}
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Query the RPC endpoint for its chain ID")
	cmd.Flags().Bool("json", false, "Output the profile as JSON")
	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "Output the profile as YAML")

	return cmd
}
