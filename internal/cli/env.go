package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/abiemit/internal/cli/render"
)

// NewEnvCmd creates the env command
func NewEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the deployment environment",
		Long: `Show how CONTRACT_OWNER_PRIVATE_KEY, ETH_RPC and ETHERSCAN_API_KEY were
resolved. Values come from the process environment, .env.local and .env, in
that order of precedence. Secrets are masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowEnvironment.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewEnvRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
