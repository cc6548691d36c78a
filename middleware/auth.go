package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/sharath018/temple-registry/config"
	"github.com/sharath018/temple-registry/internal/temple"
)

// AuthMiddleware validates the bearer token and stores the resulting
// temple.Caller in the gin context.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid Authorization header")
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTAccessSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			log.Debug().Err(err).Msg("⚠️ rejected access token")
			abortUnauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid claims")
			return
		}

		caller, ok := callerFromClaims(claims)
		if !ok {
			abortUnauthorized(c, "user_id missing in token")
			return
		}
		caller.IP = GetIPFromContext(c)

		c.Set(temple.CallerKey, caller)
		c.Set("user_id", caller.ActorID)
		c.Next()
	}
}

func callerFromClaims(claims jwt.MapClaims) (temple.Caller, bool) {
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return temple.Caller{}, false
	}

	caller := temple.Caller{ActorID: uint(userIDFloat)}
	if role, ok := claims["role"].(string); ok {
		caller.Role = strings.ToLower(role)
	}
	// Tokens issued before status was added are treated as active.
	caller.Status = temple.StatusActive
	if status, ok := claims["status"].(string); ok && status != "" {
		caller.Status = strings.ToLower(status)
	}
	return caller, true
}

// CallerFromContext returns the caller stored by AuthMiddleware.
func CallerFromContext(c *gin.Context) (temple.Caller, bool) {
	val, exists := c.Get(temple.CallerKey)
	if !exists {
		return temple.Caller{}, false
	}
	caller, ok := val.(temple.Caller)
	return caller, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "unauthenticated", "message": msg},
	})
}
