package oauth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// ExchangeCodeForToken verifies the callback and trades its code for an
// access token.
func (c *Client) ExchangeCodeForToken(ctx context.Context, params url.Values) (Token, error) {
	if err := c.Verify(params); err != nil {
		return Token{}, err
	}
	code := params.Get("code")
	if code == "" {
		return Token{}, fmt.Errorf("%w: code", ErrMissingParam)
	}
	form := url.Values{}
	form.Set("client_id", c.cfg.APIKey)
	form.Set("client_secret", c.cfg.Secret)
	form.Set("code", code)

	endpoint := c.baseURL + "/admin/oauth/access_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	c.logger.Info("requesting shopify access token", "shop", c.shop)
	resp, err := c.http.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Token{}, fmt.Errorf("%w: read body: %v", ErrTokenExchange, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("shopify token request failed", "shop", c.shop, "status", resp.StatusCode)
		return Token{}, fmt.Errorf("%w: status %d", ErrTokenExchange, resp.StatusCode)
	}
	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return Token{}, fmt.Errorf("%w: decode: %v", ErrTokenExchange, err)
	}
	if tok.AccessToken == "" {
		return Token{}, fmt.Errorf("%w: empty access_token", ErrTokenExchange)
	}
	c.logger.Debug("shopify access token granted", "shop", c.shop, "scope", tok.Scope)
	return tok, nil
}
