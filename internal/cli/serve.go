package cli

import (
	"github.com/spf13/cobra"

	"github.com/kuriosis/wallbuilder/internal/server"
	"github.com/kuriosis/wallbuilder/pkg/analytics"
	"github.com/kuriosis/wallbuilder/pkg/config"
	"github.com/kuriosis/wallbuilder/pkg/httputil"
	"github.com/kuriosis/wallbuilder/pkg/storefront"
)

// newServeCmd creates the serve command, which runs the HTTP API.
func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the wallbuilder HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			st, err := cfg.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			logger.Debug("store ready", "backend", cfg.Store.Backend)

			opts := []server.Option{server.WithLogger(logger)}
			if cfg.Storefront.BaseURL != "" {
				shopOpts := []storefront.Option{storefront.WithLogger(logger)}
				if cache, err := httputil.NewCache(cfg.Storefront.CacheDir, cfg.Storefront.CacheTTL.Std()); err == nil {
					shopOpts = append(shopOpts, storefront.WithCache(cache))
				}
				opts = append(opts, server.WithStorefront(storefront.NewClient(cfg.Storefront.BaseURL, shopOpts...)))
			}
			if len(cfg.Redirects) > 0 {
				opts = append(opts, server.WithRedirects(storefront.NewMaterialRedirects(cfg.Redirects)))
			}
			if len(cfg.Analytics.Endpoints) > 0 {
				forwarder := analytics.NewForwarder(cfg.Analytics.Endpoints, logger)
				defer forwarder.Flush()
				opts = append(opts, server.WithAnalytics(forwarder))
			}

			return server.New(st, opts...).Start(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides config)")
	return cmd
}
