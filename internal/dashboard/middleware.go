package dashboard

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dbimport/internal/logging"
)

type ctxKey int

const prefixKey ctxKey = iota

// reverseProxied honors the X-Script-Name and X-Scheme headers set by a
// fronting proxy that mounts the dashboard under a path prefix:
//
//	location /tweets {
//	    proxy_pass http://127.0.0.1:8080;
//	    proxy_set_header X-Script-Name /tweets;
//	    proxy_set_header X-Scheme $scheme;
//	}
//
// The prefix is removed from the request path and kept in the context so
// rendered URLs point back through the proxy.
func reverseProxied(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := strings.TrimRight(r.Header.Get("X-Script-Name"), "/")
		scheme := r.Header.Get("X-Scheme")
		if prefix == "" && scheme == "" {
			next.ServeHTTP(w, r)
			return
		}

		u := *r.URL
		if scheme != "" {
			u.Scheme = scheme
		}
		if prefix != "" {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok && (rest == "" || rest[0] == '/') {
				if rest == "" {
					rest = "/"
				}
				u.Path = rest
				u.RawPath = ""
			}
		}

		r2 := r.WithContext(context.WithValue(r.Context(), prefixKey, prefix))
		r2.URL = &u
		next.ServeHTTP(w, r2)
	})
}

// pathPrefix returns the X-Script-Name prefix recorded for the request.
func pathPrefix(ctx context.Context) string {
	p, _ := ctx.Value(prefixKey).(string)
	return p
}

// requestLogger logs one line per request and counts it by route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		logging.FromContext(r.Context(), s.logger).Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
		)
	})
}
