package security

import (
	"errors"
	"time"

	"sweetshop/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// TokenAuth issues and verifies signed bearer tokens. The signing secret and
// token lifetime are fixed at construction from the supplied configuration;
// there is no package-level signing state.
type TokenAuth struct {
	jwtAuth *jwtauth.JWTAuth
	exp     time.Duration
}

func NewTokenAuth(cfg *config.Config) *TokenAuth {
	return &TokenAuth{
		jwtAuth: jwtauth.New("HS256", cfg.JWTKey, nil),
		exp:     cfg.JWTExp,
	}
}

// JWTAuth exposes the underlying verifier for the router's jwtauth.Verifier
// middleware.
func (a *TokenAuth) JWTAuth() *jwtauth.JWTAuth {
	return a.jwtAuth
}

// GenerateToken issues a signed bearer token asserting the given username
// and role, expiring after the configured TTL.
func (a *TokenAuth) GenerateToken(username, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"exp":  time.Now().Add(a.exp).Unix(),
		"iat":  time.Now().Unix(),
	}
	_, tokenString, err := a.jwtAuth.Encode(claims)
	return tokenString, err
}

// Helper functions to extract claims, used by the auth middleware.
func GetSubjectFromClaims(claims jwt.MapClaims) (string, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("sub claim is missing or not a string")
	}
	return sub, nil
}

func GetRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
