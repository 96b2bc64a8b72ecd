package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type claimsKey struct{}

// APIClaims are carried by results API tokens. The subject is the Discord
// user id whose results the caller may read; Admin lifts that restriction.
type APIClaims struct {
	Admin bool `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// TokenAuth issues and checks HS256 bearer tokens for the results API.
type TokenAuth struct {
	secret []byte
	now    func() time.Time
}

func NewTokenAuth(secret string) (*TokenAuth, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	return &TokenAuth{secret: []byte(secret), now: time.Now}, nil
}

func (a *TokenAuth) Issue(subject string, admin bool, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}
	now := a.now()
	claims := APIClaims{
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *TokenAuth) Verify(raw string) (*APIClaims, error) {
	claims := &APIClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token.
func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		claims, err := a.Verify(raw)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func claimsFrom(ctx context.Context) (*APIClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*APIClaims)
	return claims, ok
}

// readableCreator resolves which creator the caller asked for. An empty
// request means the caller's own results.
func readableCreator(ctx context.Context, requested string) (string, bool) {
	claims, ok := claimsFrom(ctx)
	if !ok {
		return "", false
	}
	if requested == "" {
		return claims.Subject, true
	}
	return requested, claims.Admin || requested == claims.Subject
}
