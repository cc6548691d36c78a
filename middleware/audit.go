package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	clientIPKey     = "client_ip"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// proxyHeaders are consulted in order before falling back to RemoteAddr.
var proxyHeaders = []string{"X-Forwarded-For", "X-Real-Ip", "CF-Connecting-IP"}

// AuditMiddleware resolves the client IP and a request ID once per request.
// The IP ends up on temple.Caller and from there in every audit entry; the
// request ID is echoed back and logged.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, getClientIP(c))

		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func getClientIP(c *gin.Context) string {
	for _, h := range proxyHeaders {
		v := c.GetHeader(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For lists the original client first
		first := strings.TrimSpace(strings.SplitN(v, ",", 2)[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

// GetIPFromContext returns the IP resolved by AuditMiddleware, resolving it
// now if the middleware did not run.
func GetIPFromContext(c *gin.Context) string {
	if ip, ok := c.Get(clientIPKey); ok {
		if s, ok := ip.(string); ok {
			return s
		}
	}
	return getClientIP(c)
}

func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
