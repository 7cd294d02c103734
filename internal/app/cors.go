package app

import (
	"net/url"
	"strings"

	"github.com/code-injection/core/internal/config"
	"github.com/gin-contrib/cors"
)

// corsConfig builds the CORS policy. Development allows any origin so an
// admin UI can run off localhost; production restricts to the configured
// origin patterns ("example.com", "*.example.com", "localhost:*"). X-Cache
// is exposed so clients can observe raw-render cache hits.
func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Cache"},
		AllowCredentials: true,
	}

	patterns := cfg.AllowedOrigins
	if len(patterns) == 0 || cfg.IsDev() {
		c.AllowOriginFunc = func(string) bool { return true }
		return c
	}
	c.AllowOriginFunc = func(origin string) bool {
		host := originHost(origin)
		for _, pattern := range patterns {
			if originMatches(pattern, host) {
				return true
			}
		}
		return false
	}
	return c
}

// originHost reduces an origin URL to its "host[:port]" portion.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

func originMatches(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
