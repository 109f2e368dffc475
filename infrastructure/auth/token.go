// Package auth 会话令牌签发/校验与密码哈希
package auth

import (
	"errors"
	"fmt"
	"time"

	"storefront/domain/identity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 会话令牌载荷
type Claims struct {
	Role  identity.Role `json:"role"`
	Email string        `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager 使用 HS256 签发和校验会话令牌
type TokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenManager(secret, issuer string) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue signs a token for id valid for ttl.
func (m *TokenManager) Issue(id identity.Identity, ttl time.Duration) (string, error) {
	if id.SubjectID == "" || !id.Role.Valid() {
		return "", fmt.Errorf("cannot issue token for subject %q with role %q", id.SubjectID, id.Role)
	}
	now := m.now()
	claims := Claims{
		Role:  id.Role,
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.SubjectID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify returns identity.ErrUnauthenticated for an empty token and
// identity.ErrInvalidToken for any signature, expiry or claim failure.
func (m *TokenManager) Verify(token string) (identity.Identity, error) {
	if token == "" {
		return identity.Identity{}, identity.ErrUnauthenticated
	}

	var claims Claims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return identity.Identity{}, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return identity.Identity{}, identity.ErrInvalidToken
	}

	return identity.Identity{
		SubjectID: claims.Subject,
		Role:      claims.Role,
		Email:     claims.Email,
	}, nil
}
