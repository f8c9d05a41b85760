// Package middleware – bearer-token authentication.
//
// This file implements the authentication gate for protected routes. It
// validates the Authorization header, resolves the acting party from the
// token, and stashes the identity in the Gin context for downstream
// middleware and handlers (idempotency, rate limiting, and the API handlers
// all key on it).
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/renterra/go-rental-backend/internal/auth"
)

// Context keys for the authenticated identity. The string values are shared
// with the rate limiter and idempotency middleware.
const (
	ctxKeyUserID   = "userID"
	ctxKeyUserRole = "userRole"
)

// UserID returns the authenticated user id, empty when unauthenticated.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UserRole returns the authenticated user's role, empty when unauthenticated.
func UserRole(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserRole); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireAuth validates the "Authorization: Bearer <token>" header and aborts
// with 401 when the token is missing or invalid. On success the acting
// party's id and role are stored in the context.
func RequireAuth(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := ""
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			token = strings.TrimSpace(header[7:])
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "missing bearer token",
			})
			return
		}
		party, err := issuer.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "invalid or expired token",
			})
			return
		}
		c.Set(ctxKeyUserID, party.ID)
		c.Set(ctxKeyUserRole, party.Role)
		c.Next()
	}
}
