package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken  = errors.New("admin: missing authentication token")
	ErrInvalidToken  = errors.New("admin: invalid token")
	ErrInvalidClaims = errors.New("admin: invalid token claims")
)

// Claims is the token shape accepted by the admin surface, a trimmed
// HS256-only version of pkg/auth/jwt.go's Claims (graphdb has no
// asymmetric-key infrastructure to justify RS256).
type Claims struct {
	UserID string   `json:"sub"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenValidator validates bearer tokens signed with a shared HMAC
// secret (jwt.go's HS256 branch).
type TokenValidator struct {
	secret []byte
	issuer string
}

func NewTokenValidator(secret, issuer string) *TokenValidator {
	return &TokenValidator{secret: []byte(secret), issuer: issuer}
}

func (v *TokenValidator) Validate(bearer string) (*Claims, error) {
	tokenString := strings.TrimSpace(strings.TrimPrefix(bearer, "Bearer "))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, ErrInvalidClaims
	}
	if claims.UserID == "" {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

type contextKey int

const claimsKey contextKey = iota

// Authenticate rejects requests without a valid bearer token,
// mirroring interfaces/http/rest/router.go's
// r.Use(middleware.Authenticate()) gate on the API route group.
func Authenticate(v *TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := v.Validate(r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			ctx := r.Context()
			r = r.WithContext(withClaims(ctx, claims))
			next.ServeHTTP(w, r)
		})
	}
}
