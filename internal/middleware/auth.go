package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig holds bearer token verification parameters
type AuthConfig struct {
	Secret string
	Issuer string
}

// UserKey is the gin context key holding the authenticated subject
const UserKey = "user"

// ErrMissingToken is returned when the Authorization header is absent.
var ErrMissingToken = errors.New("missing bearer token")

// ErrInvalidToken wraps parsing/validation errors.
var ErrInvalidToken = errors.New("invalid bearer token")

// ParseToken validates an HS256 token and returns its subject
func ParseToken(token string, cfg AuthConfig) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" || !parsed.Valid {
		return "", ErrInvalidToken
	}
	return subject, nil
}

// Auth requires a valid bearer token and stores its subject under UserKey
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := parseRequest(c.GetHeader("Authorization"), cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": err.Error(),
			})
			return
		}

		c.Set(UserKey, subject)
		c.Next()
	}
}

func parseRequest(header string, cfg AuthConfig) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", ErrInvalidToken
	}
	return ParseToken(header[len("Bearer "):], cfg)
}
