package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/reoring/wirebind/internal/config"
	"github.com/reoring/wirebind/internal/logging"
	"github.com/reoring/wirebind/oauth"
)

func oauthConfig(c config.ShopifyConfig) oauth.Config {
	return oauth.Config{
		APIKey:       c.APIKey,
		Secret:       c.Secret,
		Scopes:       c.Scopes,
		RedirectURI:  c.RedirectURI,
		ReplayWindow: c.ReplayWindow,
	}
}

func newAuthorizeURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authorize-url",
		Short: "Print the Shopify authorize URL for a shop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			if cfg.Shopify.APIKey == "" {
				return config.ErrMissingCredentials
			}
			client, err := oauth.NewClient(flagString(cmd, "shop"), oauthConfig(cfg.Shopify),
				oauth.WithLogger(logging.FromContext(cmd.Context())))
			if err != nil {
				return err
			}
			nonce := flagString(cmd, "nonce")
			if nonce == "" {
				nonce = uuid.NewString()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), client.AuthorizeURL(nonce))
			return err
		},
	}
	cmd.Flags().String("shop", "", "shop name or myshopify.com domain")
	cmd.Flags().String("nonce", "", "state parameter (default: random UUID)")
	_ = cmd.MarkFlagRequired("shop")
	return cmd
}
