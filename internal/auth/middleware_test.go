// internal/auth/middleware_test.go

package auth

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID int64, tokenType, secret string) string {
    t.Helper()

    claims := &Claims{
        UserID: userID,
        Type:   tokenType,
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
        },
    }
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := token.SignedString([]byte(secret))
    require.NoError(t, err)
    return signed
}

func doRequest(m *Middleware, authHeader string) (*httptest.ResponseRecorder, int64, bool) {
    var gotUserID int64
    var gotOK bool

    handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotUserID, gotOK = GetUserIDFromContext(r.Context())
        w.WriteHeader(http.StatusOK)
    }))

    req := httptest.NewRequest("GET", "/api/v1/matches", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    handler.ServeHTTP(rec, req)
    return rec, gotUserID, gotOK
}

func TestAuthenticateValidToken(t *testing.T) {
    m := NewMiddleware(testSecret)
    token := signToken(t, 42, "access", testSecret)

    rec, userID, ok := doRequest(m, "Bearer "+token)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.True(t, ok)
    assert.Equal(t, int64(42), userID)
}

func TestAuthenticateMissingHeader(t *testing.T) {
    m := NewMiddleware(testSecret)

    rec, _, _ := doRequest(m, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWrongSecret(t *testing.T) {
    m := NewMiddleware(testSecret)
    token := signToken(t, 42, "access", "other-secret")

    rec, _, _ := doRequest(m, "Bearer "+token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsRefreshTokens(t *testing.T) {
    m := NewMiddleware(testSecret)
    token := signToken(t, 42, "refresh", testSecret)

    rec, _, _ := doRequest(m, "Bearer "+token)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
    m := NewMiddleware(testSecret)

    claims := &Claims{
        UserID: 42,
        Type:   "access",
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
        },
    }
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := token.SignedString([]byte(testSecret))
    require.NoError(t, err)

    rec, _, _ := doRequest(m, "Bearer "+signed)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
