package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	UserContextKey    = "userID"
	SessionContextKey = "sessionID"

	SessionCookie = "sid"
	SessionHeader = "X-Session-ID"
	UserIDHeader  = "X-User-ID"
)

// IdentityConfig controls how shoppers are recognized.
type IdentityConfig struct {
	// JWTSecret verifies HMAC bearer tokens. Bearer tokens are rejected when empty.
	JWTSecret    []byte
	CookieMaxAge time.Duration
	SecureCookie bool
	// TrustUserHeader accepts X-User-ID as is. Enable only behind a gateway
	// that strips the header from client requests.
	TrustUserHeader bool
}

// Identity resolves who owns the request. A signed-in shopper is taken from
// X-User-ID (set by a trusted gateway) or a bearer token's "sub" claim. Everyone
// else gets an anonymous session id carried by the sid cookie or the
// X-Session-ID header, minted on first contact.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader(UserIDHeader)); cfg.TrustUserHeader && userID != "" {
			c.Set(UserContextKey, userID)
		} else if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			userID, err := tokenSubject(token, cfg.JWTSecret)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			c.Set(UserContextKey, userID)
		}

		sid := incomingSessionID(c)
		if sid == "" {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sid, int(cfg.CookieMaxAge.Seconds()), "/", "", cfg.SecureCookie, true)
		}
		c.Set(SessionContextKey, sid)
		c.Header(SessionHeader, sid)

		c.Next()
	}
}

func incomingSessionID(c *gin.Context) string {
	candidates := []string{c.GetHeader(SessionHeader)}
	if v, err := c.Cookie(SessionCookie); err == nil {
		candidates = append(candidates, v)
	}
	for _, v := range candidates {
		if _, err := uuid.Parse(v); err == nil {
			return v
		}
	}
	return ""
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func tokenSubject(tokenStr string, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// GetUserID returns the signed-in shopper, if any.
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(UserContextKey)
	return id, id != ""
}

// SessionKey names the session a request operates on: the user when signed
// in, otherwise the anonymous session id.
func SessionKey(c *gin.Context) (string, error) {
	if userID, ok := GetUserID(c); ok {
		return "user:" + userID, nil
	}
	if sid := c.GetString(SessionContextKey); sid != "" {
		return "anon:" + sid, nil
	}
	return "", errors.New("session not resolved")
}
