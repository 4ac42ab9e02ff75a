package admin_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"graphdb/internal/admin"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, issuer, userID string, expired bool) string {
	t.Helper()
	claims := admin.Claims{
		UserID: userID,
		Roles:  []string{"operator"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	if expired {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestTokenValidatorAcceptsValidToken(t *testing.T) {
	v := admin.NewTokenValidator("shared-secret", "graphdb")
	token := signToken(t, "shared-secret", "graphdb", "user-1", false)

	claims, err := v.Validate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestTokenValidatorRejectsMissingToken(t *testing.T) {
	v := admin.NewTokenValidator("shared-secret", "graphdb")
	_, err := v.Validate("")
	assert.ErrorIs(t, err, admin.ErrMissingToken)
}

func TestTokenValidatorRejectsWrongSecret(t *testing.T) {
	v := admin.NewTokenValidator("shared-secret", "graphdb")
	token := signToken(t, "other-secret", "graphdb", "user-1", false)

	_, err := v.Validate("Bearer " + token)
	assert.Error(t, err)
}

func TestTokenValidatorRejectsWrongIssuer(t *testing.T) {
	v := admin.NewTokenValidator("shared-secret", "graphdb")
	token := signToken(t, "shared-secret", "someone-else", "user-1", false)

	_, err := v.Validate("Bearer " + token)
	assert.ErrorIs(t, err, admin.ErrInvalidClaims)
}

func TestTokenValidatorRejectsExpiredToken(t *testing.T) {
	v := admin.NewTokenValidator("shared-secret", "graphdb")
	token := signToken(t, "shared-secret", "graphdb", "user-1", true)

	_, err := v.Validate("Bearer " + token)
	assert.Error(t, err)
}

func TestAuthenticateMiddlewareSetsClaims(t *testing.T) {
	v := admin.NewTokenValidator("shared-secret", "graphdb")
	token := signToken(t, "shared-secret", "graphdb", "user-1", false)

	var gotClaims *admin.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = admin.ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	admin.Authenticate(v)(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "user-1", gotClaims.UserID)
}

func TestAuthenticateMiddlewareRejectsMissingToken(t *testing.T) {
	v := admin.NewTokenValidator("shared-secret", "graphdb")
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest("GET", "/admin/stats", nil)
	rec := httptest.NewRecorder()

	admin.Authenticate(v)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
