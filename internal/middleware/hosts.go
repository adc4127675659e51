package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/n0nuser/gin-archetype/internal/pkg"
)

// TrustedHosts returns a gin middleware that rejects requests whose Host
// header is not in allowed with a 400 error envelope. Entries may be exact
// host names or IP literals, "*.domain" patterns matching any subdomain, or
// "*" to allow any host. An empty list allows every host. Ports are ignored.
//
// Allowed responses also get the nosniff and frame-deny headers.
func TrustedHosts(allowed []string) gin.HandlerFunc {
	patterns := hostPatterns(allowed)
	if len(patterns) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return secure.New(secure.Config{
		AllowedHosts:         patterns,
		AllowedHostsAreRegex: true,
		ContentTypeNosniff:   true,
		FrameDeny:            true,
		BadHostHandler: func(c *gin.Context) {
			pkg.ErrorStatus(c, http.StatusBadRequest)
		},
	})
}

// hostPatterns turns host entries into anchored, case-insensitive regular
// expressions. It returns nil when any host is allowed.
func hostPatterns(allowed []string) []string {
	const port = `(:\d+)?$`

	var patterns []string
	for _, h := range allowed {
		h = strings.TrimSpace(h)
		switch {
		case h == "":
		case h == "*":
			return nil
		case strings.HasPrefix(h, "*."):
			patterns = append(patterns, `(?i)^([a-z0-9-]+\.)+`+regexp.QuoteMeta(h[2:])+port)
		case strings.Contains(h, ":"):
			h = strings.Trim(h, "[]")
			patterns = append(patterns, `(?i)^\[`+regexp.QuoteMeta(h)+`\]`+port)
		default:
			patterns = append(patterns, `(?i)^`+regexp.QuoteMeta(h)+port)
		}
	}
	return patterns
}
