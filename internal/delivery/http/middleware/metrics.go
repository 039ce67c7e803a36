package middleware

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/metrics"
)

// Metrics records request counts and latency. The path label is the matched
// ServeMux pattern so ids do not blow up label cardinality.
func Metrics(m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		path := routeLabel(r)
		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// BasicAuth guards a handler with a fixed user and password. When either is
// empty the handler is served without a check.
func BasicAuth(user, password string, next http.Handler) http.Handler {
	if user == "" || password == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		userMatch := subtle.ConstantTimeCompare([]byte(u), []byte(user)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1
		if !ok || !userMatch || !passMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="metrics"`)
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
