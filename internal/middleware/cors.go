// Package middleware provides HTTP middleware for the relay API.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// Wildcard allows any origin, method or header.
const Wildcard = "*"

// CORSConfig holds CORS configuration options.
type CORSConfig struct {
	// AllowedOrigins lists origins allowed to make cross-origin requests.
	// "*" allows every origin.
	AllowedOrigins []string

	// AllowedMethods lists allowed methods. "*" echoes the preflight's
	// Access-Control-Request-Method.
	AllowedMethods []string

	// AllowedHeaders lists allowed request headers. "*" echoes the
	// preflight's Access-Control-Request-Headers.
	AllowedHeaders []string

	// ExposedHeaders specifies which headers the browser can access.
	ExposedHeaders []string

	// AllowCredentials lets browsers send cookies and Authorization.
	// With a wildcard origin the request origin is echoed instead of "*",
	// since browsers reject "*" together with credentials.
	AllowCredentials bool

	// MaxAge is the value for Access-Control-Max-Age header (in seconds).
	MaxAge int
}

// DefaultCORSConfig returns a fully open policy: any origin, method and
// header, with credentials.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{Wildcard},
		AllowedMethods:   []string{Wildcard},
		AllowedHeaders:   []string{Wildcard},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing,
// answering preflight OPTIONS requests itself.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	anyOrigin := contains(cfg.AllowedOrigins, Wildcard)
	anyMethod := contains(cfg.AllowedMethods, Wildcard)
	anyHeader := contains(cfg.AllowedHeaders, Wildcard)

	methodsStr := strings.Join(cfg.AllowedMethods, ", ")
	headersStr := strings.Join(cfg.AllowedHeaders, ", ")
	exposedStr := strings.Join(cfg.ExposedHeaders, ", ")
	maxAgeStr := ""
	if cfg.MaxAge > 0 {
		maxAgeStr = strconv.Itoa(cfg.MaxAge)
	}

	originMap := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		originMap[strings.ToLower(origin)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// No Origin header = same-origin request, skip CORS
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			isPreflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""

			if !anyOrigin && !originMap[strings.ToLower(origin)] {
				if isPreflight {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			if anyOrigin && !cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Origin", Wildcard)
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}

			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if !isPreflight {
				if exposedStr != "" {
					h.Set("Access-Control-Expose-Headers", exposedStr)
				}
				next.ServeHTTP(w, r)
				return
			}

			if anyMethod {
				h.Set("Access-Control-Allow-Methods", r.Header.Get("Access-Control-Request-Method"))
			} else {
				h.Set("Access-Control-Allow-Methods", methodsStr)
			}

			if anyHeader {
				if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
					h.Set("Access-Control-Allow-Headers", requested)
					h.Add("Vary", "Access-Control-Request-Headers")
				}
			} else if headersStr != "" {
				h.Set("Access-Control-Allow-Headers", headersStr)
			}

			if maxAgeStr != "" {
				h.Set("Access-Control-Max-Age", maxAgeStr)
			}

			w.WriteHeader(http.StatusOK)
		})
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
