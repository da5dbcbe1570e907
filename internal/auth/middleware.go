// internal/auth/middleware.go
// Identity middleware. Token issuance lives in a separate identity service;
// this backend only verifies tokens and trusts the user id they carry.

package auth

import (
    "context"
    "errors"
    "net/http"
    "strings"

    "github.com/golang-jwt/jwt/v4"

    "github.com/emberlyapp/emberly-backend/internal/common/utils"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by access tokens issued by the identity service
type Claims struct {
    UserID int64  `json:"user_id"`
    Type   string `json:"type"`
    jwt.RegisteredClaims
}

// Middleware provides authentication middleware
type Middleware struct {
    secret []byte
}

// NewMiddleware creates a new auth middleware
func NewMiddleware(jwtSecret string) *Middleware {
    return &Middleware{
        secret: []byte(jwtSecret),
    }
}

// Authenticate verifies the bearer token and adds the user id to the request context
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        token := m.extractToken(r)
        if token == "" {
            utils.ErrorResponse(w, "Missing or invalid authorization header", http.StatusUnauthorized)
            return
        }

        claims, err := m.validateToken(token)
        if err != nil {
            utils.ErrorResponse(w, "Invalid or expired token", http.StatusUnauthorized)
            return
        }

        // Refresh tokens must not grant API access
        if claims.Type != "access" {
            utils.ErrorResponse(w, "Invalid token type", http.StatusUnauthorized)
            return
        }

        ctx := context.WithValue(r.Context(), "userID", claims.UserID)
        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

// validateToken parses and verifies a JWT access token
func (m *Middleware) validateToken(tokenString string) (*Claims, error) {
    claims := &Claims{}

    token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return m.secret, nil
    })
    if err != nil || !token.Valid {
        return nil, ErrInvalidToken
    }

    return claims, nil
}

// extractToken extracts the JWT token from the Authorization header
// Supports "Bearer <token>" format
func (m *Middleware) extractToken(r *http.Request) string {
    authHeader := r.Header.Get("Authorization")
    if authHeader == "" {
        return ""
    }

    parts := strings.Split(authHeader, " ")
    if len(parts) != 2 || parts[0] != "Bearer" {
        return ""
    }

    return parts[1]
}

// GetUserIDFromContext extracts user ID from request context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
    userID, ok := ctx.Value("userID").(int64)
    return userID, ok
}
