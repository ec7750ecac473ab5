package jwtinfra

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/secondchance-api/internal/config"
)

// UserClaim is the nested subject object inside the token payload.
type UserClaim struct {
	ID string `json:"id"`
}

// Claims is the token payload: {"user":{"id":...}}. No expiry is set, so a
// token stays valid until the signing secret rotates.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a shared secret.
type Provider struct {
	secret []byte
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &Provider{secret: []byte(cfg.JWTSecret)}, nil
}

func (p *Provider) Sign(userID string) (string, error) {
	claims := Claims{User: UserClaim{ID: userID}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
