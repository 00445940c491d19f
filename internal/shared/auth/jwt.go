package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidKey   = errors.New("invalid jwt public key")
)

// Claims are read from both staff and customer tokens. The hosted auth
// backend puts the account kind in "role" ("authenticated" for customers);
// staff grants such as "admin" travel in "roles".
type Claims struct {
	SessionID string   `json:"sid,omitempty"`
	Role      string   `json:"role,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Email     string   `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

const clockSkew = 5 * time.Second

// JWTValidator accepts tokens signed with exactly one method: HS256 with the
// shared secret, or RS256 when a public key is configured.
type JWTValidator struct {
	key     any
	methods []string
	now     func() time.Time
}

// NewJWTValidator checks HS256 tokens signed with secret.
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{
		key:     []byte(strings.TrimSpace(secret)),
		methods: []string{jwt.SigningMethodHS256.Alg()},
		now:     time.Now,
	}
}

// NewJWTValidatorWithPublicKey checks RS256 tokens against publicKeyPEM, or
// HS256 ones against secret when no key is given. A key that does not parse
// is reported instead of falling back to the secret.
func NewJWTValidatorWithPublicKey(secret, publicKeyPEM string) (*JWTValidator, error) {
	if strings.TrimSpace(publicKeyPEM) == "" {
		return NewJWTValidator(secret), nil
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &JWTValidator{key: key, methods: []string{jwt.SigningMethodRS256.Alg()}, now: time.Now}, nil
}

// Validate parses token and returns its claims. The session falls back to
// the token ID; it stays empty when the token carries neither.
func (v *JWTValidator) Validate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	if secret, ok := v.key.([]byte); ok && len(secret) == 0 {
		return nil, fmt.Errorf("%w: no signing key configured", ErrInvalidToken)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods(v.methods),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if claims.SessionID == "" {
		claims.SessionID = claims.ID
	}
	return claims, nil
}
