// Package oauth implements the Shopify OAuth handshake: the authorize
// redirect, verification of the signed callback and the exchange of the
// authorization code for an access token.
package oauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidShop      = errors.New("oauth: invalid shop domain")
	ErrMissingParam     = errors.New("oauth: missing callback parameter")
	ErrReplayExpired    = errors.New("oauth: callback timestamp outside replay window")
	ErrInvalidSignature = errors.New("oauth: invalid HMAC signature")
	ErrTokenExchange    = errors.New("oauth: token exchange failed")
)

// DefaultReplayWindow is how old a signed callback may be.
const DefaultReplayWindow = 24 * time.Hour

// Token is the access token granted for a shop.
type Token struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// TokenExchanger exchanges the code of a verified callback for a token.
type TokenExchanger interface {
	ExchangeCodeForToken(ctx context.Context, params url.Values) (Token, error)
}

// SignatureValidator reports whether callback parameters carry a valid,
// fresh signature.
type SignatureValidator interface {
	ValidateSignedParams(params url.Values) bool
}

// Config carries the app credentials. Secret is never logged.
type Config struct {
	APIKey       string
	Secret       string
	Scopes       []string
	RedirectURI  string
	ReplayWindow time.Duration
}

// Client talks to one shop.
type Client struct {
	cfg     Config
	shop    string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

var (
	_ TokenExchanger     = (*Client)(nil)
	_ SignatureValidator = (*Client)(nil)
)

type Option func(*Client)

// WithHTTPClient sets the client used for the token request.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithLogger sets the logger. The default discards.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

// WithClock replaces time.Now for replay checks.
func WithClock(now func() time.Time) Option { return func(c *Client) { c.now = now } }

// WithBaseURL replaces https://<shop> as the root of shop endpoints.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// NewClient returns a client for shop, a bare shop name or a
// *.myshopify.com domain.
func NewClient(shop string, cfg Config, opts ...Option) (*Client, error) {
	domain, err := ShopDomain(shop)
	if err != nil {
		return nil, err
	}
	if cfg.ReplayWindow <= 0 {
		cfg.ReplayWindow = DefaultReplayWindow
	}
	c := &Client{
		cfg:     cfg,
		shop:    domain,
		baseURL: "https://" + domain,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Shop returns the shop domain.
func (c *Client) Shop() string { return c.shop }

var shopRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// ShopDomain normalizes a shop name to its myshopify.com domain and rejects
// anything else.
func ShopDomain(shop string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(shop))
	if !strings.Contains(s, ".") {
		s += ".myshopify.com"
	}
	if !shopRe.MatchString(s) {
		return "", ErrInvalidShop
	}
	return s, nil
}

// AuthorizeURL is where the merchant approves the app. nonce comes back as
// the state parameter of the callback.
func (c *Client) AuthorizeURL(nonce string) string {
	q := url.Values{}
	q.Set("client_id", c.cfg.APIKey)
	q.Set("scope", strings.Join(c.cfg.Scopes, ","))
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("state", nonce)
	return c.baseURL + "/admin/oauth/authorize?" + q.Encode()
}
