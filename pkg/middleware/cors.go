package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/honeyshop/config"
)

// CORSOptions configures the CORS middleware. An origin entry may be "*",
// an exact origin, or a subdomain wildcard such as "https://*.honeyshop.com".
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int // seconds
}

// CORSFromConfig reads CORS_ALLOWED_ORIGINS, a comma-separated list that
// defaults to "*".
func CORSFromConfig() CORSOptions {
	var origins []string
	for _, o := range strings.Split(config.Get("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return CORSOptions{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}
}

// AllowsOrigin reports whether origin matches the configured list.
func (o CORSOptions) AllowsOrigin(origin string) bool {
	for _, pattern := range o.AllowedOrigins {
		if matchOrigin(pattern, origin) {
			return true
		}
	}
	return false
}

func matchOrigin(pattern, origin string) bool {
	if pattern == "*" || strings.EqualFold(pattern, origin) {
		return true
	}
	star := strings.Index(pattern, "*.")
	if star < 0 {
		return false
	}
	prefix, suffix := pattern[:star], pattern[star+1:]
	return len(origin) > len(prefix)+len(suffix) &&
		strings.HasPrefix(strings.ToLower(origin), strings.ToLower(prefix)) &&
		strings.HasSuffix(strings.ToLower(origin), strings.ToLower(suffix))
}

// CORS echoes an allowed Origin back and answers preflight requests with
// 204. A plain OPTIONS request without Access-Control-Request-Method goes
// to the router like any other request.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")
	exposed := strings.Join(opts.ExposedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			allowed := opts.AllowsOrigin(origin)
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				if exposed != "" {
					w.Header().Set("Access-Control-Expose-Headers", exposed)
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowed {
					w.Header().Set("Access-Control-Allow-Methods", methods)
					w.Header().Set("Access-Control-Allow-Headers", headers)
					if opts.MaxAge > 0 {
						w.Header().Set("Access-Control-Max-Age", strconv.Itoa(opts.MaxAge))
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
