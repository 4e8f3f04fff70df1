package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	callerIDKey    = "callerId"
	callerEmailKey = "callerEmail"
)

// Claims are the token claims the verifier cares about. Tokens are issued by
// the external auth service; this service only validates them.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the bearer token with the given secret and stashes
// the caller's id and email in the request context. The secret is injected
// explicitly; there is no ambient lookup.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(callerIDKey, claims.UserID)
		c.Set(callerEmailKey, claims.Email)
		c.Next()
	}
}

// CallerEmail returns the verified caller's email, or ok=false when the
// request carried no verified credential. It never panics; downstream code
// decides how to react to an absent caller.
func CallerEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(callerEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok && s != ""
}

// CallerID returns the verified caller's account id, or ok=false when absent.
func CallerID(c *gin.Context) (string, bool) {
	id, exists := c.Get(callerIDKey)
	if !exists {
		return "", false
	}
	s, ok := id.(string)
	return s, ok && s != ""
}
