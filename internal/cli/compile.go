package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/abiemit/internal/cli/render"
	"github.com/trebuchet-org/abiemit/internal/usecase"
)

// NewCompileCmd creates the compile command
func NewCompileCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile contracts and write abi declarations",
		Long: `Compile every Solidity source under the sources directory, write the
contract artifacts, and generate <artifacts>/<source>/abi.ts for each source.

Nothing is printed on success unless --summary or --json is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CompileContracts.Run(cmd.Context(), usecase.CompileContractsParams{})
			stopProgress(cmd)
			if err != nil {
				return err
			}

			renderer := render.NewCompileRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), app.Config.ProjectRoot)
			switch {
			case app.Config.JSON:
				return renderer.RenderJSON(result)
			case summary:
				return renderer.Render(result)
			default:
				return renderer.RenderWarnings(result)
			}
		},
	}

	cmd.Flags().Int("concurrency", 0, "Maximum number of declarations written in parallel (defaults to CPU count)")
	cmd.Flags().Bool("atomic", false, "Write declarations through a temp file and rename")
	cmd.Flags().String("solc", "", "Path to the solc binary")
	cmd.Flags().Bool("json", false, "Output the result as JSON")
	cmd.Flags().BoolVar(&summary, "summary", false, "Print a table of generated declarations")

	return cmd
}
