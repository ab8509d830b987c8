package oauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sign computes the hex HMAC-SHA256 of params the way Shopify signs its
// callbacks: every parameter but hmac, delimiters escaped, pairs sorted and
// joined with '&'.
func Sign(secret string, params url.Values) string {
	pairs := make([]string, 0, len(params))
	for k := range params {
		if k == "hmac" {
			continue
		}
		ek := strings.NewReplacer("%", "%25", "=", "%3D").Replace(k)
		ev := strings.ReplaceAll(params.Get(k), "%", "%25")
		pairs = append(pairs, strings.ReplaceAll(ek+"="+ev, "&", "%26"))
	}
	sort.Strings(pairs)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the timestamp against the replay window and the hmac
// parameter against Sign.
func (c *Client) Verify(params url.Values) error {
	ts := params.Get("timestamp")
	if ts == "" {
		return fmt.Errorf("%w: timestamp", ErrMissingParam)
	}
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: timestamp %q", ErrInvalidSignature, ts)
	}
	if time.Unix(sec, 0).Before(c.now().Add(-c.cfg.ReplayWindow)) {
		return ErrReplayExpired
	}
	got := params.Get("hmac")
	if got == "" {
		return fmt.Errorf("%w: hmac", ErrMissingParam)
	}
	want := Sign(c.cfg.Secret, params)
	if !hmac.Equal([]byte(want), []byte(got)) {
		return ErrInvalidSignature
	}
	return nil
}

// ValidateSignedParams reports whether Verify accepts params.
func (c *Client) ValidateSignedParams(params url.Values) bool {
	if err := c.Verify(params); err != nil {
		c.logger.Warn("rejected shopify callback", "shop", c.shop, "err", err)
		return false
	}
	return true
}
