// Package token issues and verifies HS256 JWTs whose claims carry a typed payload.
package token

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/result"
	"github.com/ErlanBelekov/classroom/internal/validation"
	"github.com/golang-jwt/jwt/v5"
)

// Claims the service manages itself; they never reach the payload validator.
var internalClaims = []string{"iat", "exp", "nbf"}

type Service struct {
	now func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for both signing and verification.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(opts ...Option) *Service {
	s := &Service{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate signs payload's JSON fields together with iat and exp.
func (s *Service) Generate(secret []byte, expiresIn time.Duration, payload any) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: empty token secret", domain.ErrMisconfigured)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	claims := jwt.MapClaims{}
	if err = json.Unmarshal(b, &claims); err != nil {
		return "", fmt.Errorf("payload must encode to a JSON object: %w", err)
	}
	for _, k := range internalClaims {
		delete(claims, k)
	}

	now := s.now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(expiresIn).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// IsValid checks signature and expiry, then runs the remaining claims through
// payload. A payload that does not fit is reported as TokenInvalid. Segments
// must be canonical base64url, so unused trailing bits cannot vary.
func IsValid[T any](s *Service, raw string, secret []byte, payload validation.TypeValidator[T]) result.Result[T, domain.TokenError] {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return result.Err[T](classify(err))
	}

	for _, k := range internalClaims {
		delete(claims, k)
	}
	r := payload.Validate(map[string]any(claims))
	if r.IsErr() {
		return result.Err[T](domain.TokenInvalid)
	}
	return result.Ok[T, domain.TokenError](r.Value())
}

func classify(err error) domain.TokenError {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.TokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return domain.TokenInvalid
	default:
		return domain.TokenUnknown
	}
}

// RandomCode draws n characters uniformly from alphabet using crypto/rand.
// An empty alphabet is a programming error and panics.
func RandomCode(alphabet string, n int) string {
	runes := []rune(alphabet)
	if len(runes) == 0 {
		panic("token: RandomCode called with an empty alphabet")
	}
	max := big.NewInt(int64(len(runes)))
	out := make([]rune, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("token: read random: %v", err))
		}
		out[i] = runes[idx.Int64()]
	}
	return string(out)
}
