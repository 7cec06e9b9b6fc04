package token

import (
	"context"
	"errors"
	"time"

	"github.com/makpal80/avtoray/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type HSProvider struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewHSProvider(secret, issuer, audience string) *HSProvider {
	return &HSProvider{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

type customClaims struct {
	Sub     string `json:"sub"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func (p *HSProvider) SignAccess(ctx context.Context, sub uuid.UUID, isAdmin bool, ttl time.Duration) (string, time.Time, error) {
	now := p.now()
	exp := now.Add(ttl)

	claims := customClaims{
		Sub:     sub.String(),
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    p.issuer,
			Subject:   sub.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if p.audience != "" {
		claims.Audience = []string{p.audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(p.secret)
	return signed, exp, err
}

func (p *HSProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(p.now)}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}

	parsed, err := jwt.ParseWithClaims(token, &customClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	cc, ok := parsed.Claims.(*customClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	uid, err := uuid.Parse(cc.Sub)
	if err != nil {
		return nil, err
	}
	return &service.Claims{UserID: uid, IsAdmin: cc.IsAdmin, Exp: cc.ExpiresAt.Time}, nil
}
