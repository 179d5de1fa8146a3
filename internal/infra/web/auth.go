package web

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"tutoring-platform/internal/domain/ports/repository"
	"tutoring-platform/internal/infra/logging"
)

type ctxKey string

const userIDKey ctxKey = "auth_user_id"

// UserID extracts the authenticated user id placed by RequireUser.
func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// userClaims are the identity-provider access-token claims we consume.
// Subject is the user id; email rides along for logging only.
type userClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 access tokens minted by the identity provider
// and resolves admin status from the profile record.
type Authenticator struct {
	secret   []byte
	profiles repository.ProfileRepository
}

func NewAuthenticator(secret string, profiles repository.ProfileRepository) *Authenticator {
	return &Authenticator{secret: []byte(secret), profiles: profiles}
}

func (a *Authenticator) parse(tok string) (*userClaims, error) {
	claims := &userClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearerToken(r *http.Request) string {
	hdr := r.Header.Get("Authorization")
	if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return ""
	}
	return strings.TrimSpace(hdr[7:])
}

// RequireUser rejects unauthenticated requests and stores the user id in the
// request context.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerToken(r)
		if tok == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		claims, err := a.parse(tok)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
		ctx = logging.WithUserID(ctx, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin additionally checks the profile's admin flag. Admin status
// lives on the profile, not in the token, so a revoked admin loses access
// without waiting for token expiry.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, err := a.profiles.FindByID(r.Context(), nil, UserID(r.Context()))
		if err != nil || !profile.IsAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
