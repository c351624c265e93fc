package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/student-records-api/internal/models"
)

// ContextUserKey is the gin context key storing the acting user id.
const ContextUserKey = "currentUser"

// UserIDHeader carries a caller-supplied user id when no bearer token is present.
const UserIDHeader = "X-User-Id"

// Identity resolves who is making the request and never rejects it. A valid HS256
// bearer token wins when secret is set, then the X-User-Id header, then "anonymous".
func Identity(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		userID := ""
		if len(key) > 0 {
			userID = bearerSubject(c.GetHeader("Authorization"), key)
		}
		if userID == "" {
			userID = strings.TrimSpace(c.GetHeader(UserIDHeader))
		}
		if userID == "" {
			userID = models.AnonymousUser
		}
		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// UserID returns the id resolved by Identity, or "anonymous".
func UserID(c *gin.Context) string {
	if value, ok := c.Get(ContextUserKey); ok {
		if id, ok := value.(string); ok && id != "" {
			return id
		}
	}
	return models.AnonymousUser
}

func bearerSubject(header string, key []byte) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ""
	}
	return claims.Subject
}
