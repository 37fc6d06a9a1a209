package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kuriosis/wallbuilder/pkg/buildinfo"
)

// Execute runs the wallbuilder CLI until ctx is cancelled or a command
// finishes. The logger is attached to the command context and accessible to
// all commands via loggerFromContext; --verbose switches it to debug level.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "Wallbuilder composes and prices gallery walls",
		Long:         `Wallbuilder is the engine behind the gallery-wall designer: it resolves product variants, prices compositions, persists saved galleries, encodes share links and submits finished walls to the storefront cart.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")

	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newResolveCmd())
	root.AddCommand(newTotalCmd())
	root.AddCommand(newShareCmd())
	root.AddCommand(newGalleriesCmd(&configPath))
	root.AddCommand(newCartCmd(&configPath))
	root.AddCommand(newWishlistCmd())

	return root.ExecuteContext(ctx)
}
