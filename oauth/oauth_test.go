package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/wirebind/oauth"
)

var testCfg = oauth.Config{
	APIKey:      "key",
	Secret:      "hush",
	Scopes:      []string{"read_orders", "read_products"},
	RedirectURI: "http://localhost:8000/integrations/shopify/callback",
}

var fixedNow = time.Unix(1_700_000_000, 0)

func signed(ts time.Time, extra map[string]string) url.Values {
	p := url.Values{}
	p.Set("code", "abc")
	p.Set("shop", "demo.myshopify.com")
	p.Set("state", "nonce-1")
	p.Set("timestamp", strconv.FormatInt(ts.Unix(), 10))
	for k, v := range extra {
		p.Set(k, v)
	}
	p.Set("hmac", oauth.Sign(testCfg.Secret, p))
	return p
}

func newClient(t *testing.T, opts ...oauth.Option) *oauth.Client {
	t.Helper()
	opts = append([]oauth.Option{oauth.WithClock(func() time.Time { return fixedNow })}, opts...)
	c, err := oauth.NewClient("demo", testCfg, opts...)
	require.NoError(t, err)
	return c
}

func TestShopDomain(t *testing.T) {
	d, err := oauth.ShopDomain("Demo")
	require.NoError(t, err)
	assert.Equal(t, "demo.myshopify.com", d)

	d, err = oauth.ShopDomain("demo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "demo.myshopify.com", d)

	for _, bad := range []string{"", "evil.example.com", "demo.myshopify.com/x", "-x"} {
		_, err := oauth.ShopDomain(bad)
		assert.ErrorIs(t, err, oauth.ErrInvalidShop, bad)
	}
}

func TestSign_KnownVector(t *testing.T) {
	// Shopify's documented example: code, shop, state and timestamp signed
	// with secret "hush".
	p := url.Values{}
	p.Set("code", "0907a61c0c8d55e99db179b68161bc00")
	p.Set("shop", "some-shop.myshopify.com")
	p.Set("state", "0.6784241404160823")
	p.Set("timestamp", "1337178173")
	assert.Equal(t, "700e2dadb827fcc8609e9d5ce208b2e9cdaab9df07390d2cbca10d7c328fc4bf", oauth.Sign("hush", p))
}

func TestSign_EscapesDelimiters(t *testing.T) {
	a := url.Values{"a": {"1&b=2"}}
	b := url.Values{"a": {"1"}, "b": {"2"}}
	assert.NotEqual(t, oauth.Sign("s", a), oauth.Sign("s", b))

	withHMAC := url.Values{"a": {"1"}, "hmac": {"zzz"}}
	assert.Equal(t, oauth.Sign("s", url.Values{"a": {"1"}}), oauth.Sign("s", withHMAC))
}

func TestVerify(t *testing.T) {
	c := newClient(t)

	require.NoError(t, c.Verify(signed(fixedNow.Add(-time.Hour), nil)))
	assert.True(t, c.ValidateSignedParams(signed(fixedNow, nil)))

	old := signed(fixedNow.Add(-25*time.Hour), nil)
	assert.ErrorIs(t, c.Verify(old), oauth.ErrReplayExpired)
	assert.False(t, c.ValidateSignedParams(old))

	tampered := signed(fixedNow, nil)
	tampered.Set("shop", "other.myshopify.com")
	assert.ErrorIs(t, c.Verify(tampered), oauth.ErrInvalidSignature)

	noHMAC := signed(fixedNow, nil)
	noHMAC.Del("hmac")
	assert.ErrorIs(t, c.Verify(noHMAC), oauth.ErrMissingParam)

	noTS := url.Values{"hmac": {"x"}}
	assert.ErrorIs(t, c.Verify(noTS), oauth.ErrMissingParam)
}

func TestVerify_CustomWindow(t *testing.T) {
	cfg := testCfg
	cfg.ReplayWindow = time.Minute
	c, err := oauth.NewClient("demo", cfg, oauth.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	assert.ErrorIs(t, c.Verify(signed(fixedNow.Add(-2*time.Minute), nil)), oauth.ErrReplayExpired)
}

func TestAuthorizeURL(t *testing.T) {
	c := newClient(t)
	u, err := url.Parse(c.AuthorizeURL("n-1"))
	require.NoError(t, err)
	assert.Equal(t, "demo.myshopify.com", u.Host)
	assert.Equal(t, "/admin/oauth/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "key", q.Get("client_id"))
	assert.Equal(t, "read_orders,read_products", q.Get("scope"))
	assert.Equal(t, testCfg.RedirectURI, q.Get("redirect_uri"))
	assert.Equal(t, "n-1", q.Get("state"))
}

func TestExchangeCodeForToken(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/oauth/access_token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","scope":"read_orders"}`))
	}))
	defer srv.Close()

	c := newClient(t, oauth.WithBaseURL(srv.URL), oauth.WithHTTPClient(srv.Client()))
	tok, err := c.ExchangeCodeForToken(context.Background(), signed(fixedNow, nil))
	require.NoError(t, err)
	assert.Equal(t, oauth.Token{AccessToken: "tok-1", Scope: "read_orders"}, tok)
	assert.Equal(t, "abc", gotForm.Get("code"))
	assert.Equal(t, "key", gotForm.Get("client_id"))
	assert.Equal(t, "hush", gotForm.Get("client_secret"))
}

func TestExchangeCodeForToken_Failures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()
	c := newClient(t, oauth.WithBaseURL(srv.URL))
	ctx := context.Background()

	bad := signed(fixedNow, nil)
	bad.Set("hmac", "00")
	_, err := c.ExchangeCodeForToken(ctx, bad)
	assert.ErrorIs(t, err, oauth.ErrInvalidSignature)
	assert.Zero(t, calls, "an unverified callback must not reach the shop")

	_, err = c.ExchangeCodeForToken(ctx, signed(fixedNow, nil))
	assert.ErrorIs(t, err, oauth.ErrTokenExchange)
	assert.Equal(t, 1, calls)
}
