// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. Tokens are HMAC-signed
// JWTs whose subject is the user id; that id is stored in the Gin context
// under ContextUserID for handlers, the rate limiter and idempotency checks.
package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserID is the Gin context key holding the authenticated user id.
const ContextUserID = "userID"

// HeaderUserID is the development header accepted when AuthOptions.HeaderFallback
// is on and no bearer token is sent.
const HeaderUserID = "X-User-ID"

const bearerPrefix = "Bearer "

// Auth errors.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrMissingSub   = errors.New("token has no subject")
)

// Claims are the JWT claims this service reads.
type Claims struct {
	jwt.RegisteredClaims
	// Roles is informational; access rules are enforced by the services.
	Roles []string `json:"roles,omitempty"`
}

// AuthOptions configures Auth.
type AuthOptions struct {
	// Secret is the HMAC key. An empty secret rejects every token.
	Secret []byte
	// Issuer, when set, must match the token's iss claim.
	Issuer string
	// HeaderFallback accepts X-User-ID when no Authorization header is sent.
	HeaderFallback bool
	// Optional lets anonymous requests through (identity is then "").
	Optional bool
}

// ParseToken validates a signed token and returns its claims.
func (o AuthOptions) ParseToken(raw string) (*Claims, error) {
	if len(o.Secret) == 0 {
		return nil, ErrInvalidToken
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if o.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(o.Issuer))
	}
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return o.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingSub
	}
	return claims, nil
}

// IssueToken signs an HS256 token for subject valid for ttl. Used by tests
// and the dev token command.
func (o AuthOptions) IssueToken(subject string, ttl time.Duration, roles ...string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    o.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Roles: roles,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(o.Secret)
}

// Auth authenticates the request and stores the user id in the context.
// Failures answer 401 with the standard error envelope fields.
func Auth(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))

		if header == "" {
			if opts.HeaderFallback {
				if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
					c.Set(ContextUserID, uid)
					withUser(c, uid)
					c.Next()
					return
				}
			}
			if opts.Optional {
				c.Next()
				return
			}
			abortUnauthorized(c, ErrMissingToken)
			return
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, ErrInvalidToken)
			return
		}
		claims, err := opts.ParseToken(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(ContextUserID, claims.Subject)
		withUser(c, claims.Subject)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	LoggerFrom(c).Debug().Err(err).Msg("authentication failed")
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    err.Error(),
	})
}
