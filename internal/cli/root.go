package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/abiemit/internal/adapters/progress"
	"github.com/trebuchet-org/abiemit/internal/app"
	"github.com/trebuchet-org/abiemit/internal/config"
	"github.com/trebuchet-org/abiemit/internal/usecase"
	"golang.org/x/term"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// sinkKey is the context key for the progress sink
	sinkKey contextKey = "sink"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var cancel context.CancelFunc

	rootCmd := &cobra.Command{
		Use:   "abiemit",
		Short: "Compile Solidity contracts and emit typed ABI declarations",
		Long: `abiemit compiles the project's Solidity sources with solc, writes the
contract artifacts, and generates an importable abi declaration next to the
artifacts of every source file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				var err error
				projectRoot, err = config.FindProjectRoot()
				if err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			sink := newProgressSink(v.GetBool("json"), v.GetBool("non_interactive"))
			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			ctx = context.WithValue(ctx, sinkKey, sink)
			if appInstance.Config.Timeout > 0 {
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cancel != nil {
				cancel()
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable spinners and prompts")
	rootCmd.PersistentFlags().String("project-root", "", "Project root (defaults to the nearest directory containing abiemit.toml)")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	compileCmd := NewCompileCmd()
	compileCmd.GroupID = "main"
	rootCmd.AddCommand(compileCmd)

	envCmd := NewEnvCmd()
	envCmd.GroupID = "management"
	rootCmd.AddCommand(envCmd)

	networkCmd := NewNetworkCmd()
	networkCmd.GroupID = "management"
	rootCmd.AddCommand(networkCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// newProgressSink shows a spinner only when a person is watching stderr
func newProgressSink(jsonOutput, nonInteractive bool) usecase.ProgressSink {
	if jsonOutput || nonInteractive || !term.IsTerminal(int(os.Stderr.Fd())) {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerProgressReporter()
}

// stopProgress clears any spinner before output is printed
func stopProgress(cmd *cobra.Command) {
	if s, ok := cmd.Context().Value(sinkKey).(interface{ Stop() }); ok {
		s.Stop()
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
