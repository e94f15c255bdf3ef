package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tair/allergy-scan/pkg/httpx"
	"github.com/tair/allergy-scan/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSignInDisabled     = errors.New("sign-in is not configured")
	ErrInvalidToken       = errors.New("invalid token")
)

type contextKey string

// TokenIDKey carries the validated token ID on the request context
const TokenIDKey contextKey = "token_id"

const deviceSubject = "device"

// Claims are the JWT claims issued to a signed-in device
type Claims struct {
	jwt.RegisteredClaims
}

// Authenticator issues and validates device tokens. With an empty secret every
// request is let through.
type Authenticator struct {
	secret         []byte
	passphraseHash []byte
	ttl            time.Duration
	now            func() time.Time
}

// NewAuthenticator creates an authenticator
func NewAuthenticator(secret, passphraseHash string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authenticator{
		secret:         []byte(secret),
		passphraseHash: []byte(passphraseHash),
		ttl:            ttl,
		now:            time.Now,
	}
}

// Enabled reports whether routes are protected
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// HashPassphrase returns the bcrypt hash to configure AUTH_PASSPHRASE_HASH with
func HashPassphrase(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passphrase: %w", err)
	}
	return string(hash), nil
}

// IssueToken checks the passphrase and signs a device token
func (a *Authenticator) IssueToken(passphrase string) (string, time.Time, error) {
	if !a.Enabled() || len(a.passphraseHash) == 0 {
		return "", time.Time{}, ErrSignInDisabled
	}
	if err := bcrypt.CompareHashAndPassword(a.passphraseHash, []byte(passphrase)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	expiresAt := now.Add(a.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   deviceSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a device token
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject != deviceSubject {
		return nil, fmt.Errorf("%w: unexpected subject %q", ErrInvalidToken, claims.Subject)
	}
	return claims, nil
}

// Middleware requires a valid bearer token when auth is enabled
func (a *Authenticator) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn(r.Context()).Msg("Missing authorization header")
			httpx.RespondError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httpx.RespondError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := a.ValidateToken(parts[1])
		if err != nil {
			logger.Warn(r.Context()).Err(err).Msg("Invalid token")
			httpx.RespondError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), TokenIDKey, claims.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// SignInHandler handles POST /auth/token
func (a *Authenticator) SignInHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, expiresAt, err := a.IssueToken(req.Passphrase)
	switch {
	case errors.Is(err, ErrSignInDisabled):
		httpx.RespondError(w, http.StatusNotFound, "Sign-in is not configured")
		return
	case errors.Is(err, ErrInvalidCredentials):
		httpx.RespondError(w, http.StatusUnauthorized, "Invalid passphrase")
		return
	case err != nil:
		logger.Error(r.Context()).Err(err).Msg("Failed to issue token")
		httpx.RespondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	httpx.RespondData(w, http.StatusOK, "Signed in", map[string]interface{}{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expiresAt,
	})
}
