package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/reoring/wirebind/dsl"
	"github.com/reoring/wirebind/oauth"
	"github.com/reoring/wirebind/scalar"
)

const (
	sessionName = "wirebind"
	nonceKey    = "shopify_nonce"
)

// ShopClient is what the handlers need from an OAuth client. The exchange
// verifies the signed callback itself.
type ShopClient interface {
	AuthorizeURL(nonce string) string
	oauth.TokenExchanger
}

// ClientFactory returns the client for a shop.
type ClientFactory func(shop string) (ShopClient, error)

// OAuthClients builds oauth.Client values from cfg.
func OAuthClients(cfg oauth.Config, opts ...oauth.Option) ClientFactory {
	return func(shop string) (ShopClient, error) {
		c, err := oauth.NewClient(shop, cfg, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// TokenSink receives the token of a completed handshake.
type TokenSink func(ctx context.Context, shop string, tok oauth.Token) error

var (
	startRequest = dsl.Record().Field(
		dsl.NewField("shop", scalar.Text().MaxLen(255)),
	).MustBuild()

	callbackRequest = dsl.Record().Field(
		dsl.Text("code"),
		dsl.Text("hmac"),
		dsl.Text("shop"),
		dsl.Text("state"),
		dsl.NewField("timestamp", scalar.Integer().Min(0)),
	).MustBuild()
)

// Handlers serves the Shopify OAuth handshake.
type Handlers struct {
	clients ClientFactory
	store   sessions.Store
	onToken TokenSink
	logger  *slog.Logger
}

// NewHandlers wires the handlers. A nil onToken only logs the grant.
func NewHandlers(clients ClientFactory, store sessions.Store, onToken TokenSink, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if onToken == nil {
		onToken = func(ctx context.Context, shop string, tok oauth.Token) error {
			logger.InfoContext(ctx, "shopify access granted", "shop", shop, "scope", tok.Scope)
			return nil
		}
	}
	return &Handlers{clients: clients, store: store, onToken: onToken, logger: logger}
}

// Start stores a fresh nonce in the session and redirects to the shop's
// authorize page. It expects the query bound by BindQuery, as SetupRoutes
// mounts it.
func (h *Handlers) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, _ := Bound(ctx)
	client, err := h.clients(req["shop"].(string))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_shop", err.Error())
		return
	}

	sess, err := h.store.Get(r, sessionName)
	if err != nil {
		h.logger.WarnContext(ctx, "discarding unreadable session", "err", err)
	}
	nonce := uuid.NewString()
	sess.Values[nonceKey] = nonce
	if err := sess.Save(r, w); err != nil {
		h.logger.ErrorContext(ctx, "saving session", "err", err)
		writeError(w, http.StatusInternalServerError, "session", "could not save session")
		return
	}
	http.Redirect(w, r, client.AuthorizeURL(nonce), http.StatusFound)
}

// Callback checks the nonce of Shopify's redirect and exchanges the code for
// a token. Signature and replay failures from the exchange answer 403.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()
	req, _ := Bound(ctx)

	sess, _ := h.store.Get(r, sessionName)
	want, _ := sess.Values[nonceKey].(string)
	state := req["state"].(string)
	if want == "" || subtle.ConstantTimeCompare([]byte(want), []byte(state)) != 1 {
		writeError(w, http.StatusForbidden, "invalid_nonce", "invalid nonce from Shopify")
		return
	}
	delete(sess.Values, nonceKey)
	if err := sess.Save(r, w); err != nil {
		h.logger.WarnContext(ctx, "clearing nonce", "err", err)
	}

	client, err := h.clients(req["shop"].(string))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_shop", err.Error())
		return
	}
	tok, err := client.ExchangeCodeForToken(ctx, params)
	if err != nil {
		h.logger.WarnContext(ctx, "token exchange failed", "shop", req["shop"], "err", err)
		switch {
		case errors.Is(err, oauth.ErrTokenExchange):
			writeError(w, http.StatusBadGateway, "token_exchange", err.Error())
		case errors.Is(err, oauth.ErrInvalidSignature), errors.Is(err, oauth.ErrReplayExpired):
			writeError(w, http.StatusForbidden, "invalid_signature", "request did not pass hmac validation")
		default:
			writeError(w, http.StatusForbidden, "token_exchange", err.Error())
		}
		return
	}
	if err := h.onToken(ctx, req["shop"].(string), tok); err != nil {
		h.logger.ErrorContext(ctx, "storing token", "shop", req["shop"], "err", err)
		writeError(w, http.StatusInternalServerError, "token_store", "could not store token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "connected", "shop": req["shop"], "scope": tok.Scope})
}
