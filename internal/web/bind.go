package web

import (
	"context"
	"net/http"
	"net/url"

	wirebind "github.com/reoring/wirebind"
	"github.com/reoring/wirebind/dsl"
)

type boundKey struct{}

// ContextWithBound attaches a bound request record to ctx.
func ContextWithBound(ctx context.Context, rec map[string]any) context.Context {
	return context.WithValue(ctx, boundKey{}, rec)
}

// Bound returns the record stored by BindQuery.
func Bound(ctx context.Context) (map[string]any, bool) {
	v, ok := ctx.Value(boundKey{}).(map[string]any)
	return v, ok
}

// BindQuery binds the query parameters with rec before calling next.
// Failures answer 400 with the flattened issues.
func BindQuery(rec *dsl.RecordBinding) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v, err := rec.Bind(r.Context(), queryMap(r.URL.Query()))
			if err != nil {
				writeIssues(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithBound(r.Context(), v)))
		})
	}
}

// queryMap flattens query parameters to their first value.
func queryMap(q url.Values) map[string]any {
	out := make(map[string]any, len(q))
	for k := range q {
		out[k] = q.Get(k)
	}
	return out
}

type issueReply struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorPayload shapes binding failures for JSON replies.
func ErrorPayload(err error) map[string]any {
	iss, _ := wirebind.AsIssues(err)
	out := make([]issueReply, 0, len(iss))
	for _, it := range iss {
		out = append(out, issueReply{Path: it.Path, Code: it.Code, Message: it.Message})
	}
	return map[string]any{"error": "invalid_request", "issues": out}
}

func writeIssues(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorPayload(err))
}
