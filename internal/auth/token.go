// Package auth implements credential hashing, access token issuance and
// verification, and per-request identity resolution.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is used when issuance does not override the lifetime.
const DefaultTokenTTL = 15 * time.Minute

// Issuer signs and verifies access tokens with a single shared secret and
// one configured HMAC algorithm. There is no key rotation.
type Issuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOption configures Issuer behavior.
type IssuerOption func(*Issuer)

// WithTTL overrides the default token lifetime.
func WithTTL(ttl time.Duration) IssuerOption {
	return func(i *Issuer) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) IssuerOption {
	return func(i *Issuer) {
		if fn != nil {
			i.now = fn
		}
	}
}

// NewIssuer constructs an Issuer for the named HMAC algorithm (HS256,
// HS384 or HS512).
func NewIssuer(secret, algorithm string, opts ...IssuerOption) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	method := jwt.GetSigningMethod(strings.ToUpper(strings.TrimSpace(algorithm)))
	if method == nil {
		return nil, errors.New("auth: unknown signing algorithm " + algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("auth: only HMAC signing algorithms are supported")
	}
	issuer := &Issuer{
		secret: []byte(secret),
		method: method,
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer, nil
}

// Issue signs a token for the subject. Extra claims are merged into the
// payload and may overwrite "sub", but "iat" and "exp" are always
// server-computed: iat is now, exp is now plus ttl (the issuer default
// when ttl <= 0).
func (i *Issuer) Issue(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = i.ttl
	}
	now := i.now().UTC()
	claims := jwt.MapClaims{"sub": subject, "jti": uuid.NewString()}
	for k, v := range extra {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(i.method, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the payload. It
// returns ErrInvalidToken when the signature is invalid, the payload is
// malformed, or the token has expired.
func (i *Issuer) Verify(tokenString string) (jwt.MapClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithTimeFunc(func() time.Time { return i.now().UTC() }),
		jwt.WithValidMethods([]string{i.method.Alg()}),
	)
	parsed, err := parser.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
