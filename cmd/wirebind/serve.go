package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reoring/wirebind/internal/logging"
	"github.com/reoring/wirebind/internal/web"
	"github.com/reoring/wirebind/oauth"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Shopify OAuth start and callback endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			if err := cfg.Shopify.Validate(); err != nil {
				return err
			}
			if err := cfg.Server.Validate(); err != nil {
				return err
			}
			logger := logging.FromContext(cmd.Context())
			srv := web.NewServer(web.Config{
				Addr:          cfg.Server.Addr,
				SessionKey:    cfg.Server.SessionKey,
				SecureCookies: cfg.Server.SecureCookies,
				Clients:       web.OAuthClients(oauthConfig(cfg.Shopify), oauth.WithLogger(logger)),
				Logger:        logger,
			})
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Serve(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from config, :8000)")
	return cmd
}
