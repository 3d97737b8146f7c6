package token_test

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/classroom/internal/domain"
	"github.com/ErlanBelekov/classroom/internal/token"
	"github.com/ErlanBelekov/classroom/internal/validation"
)

var (
	secret  = []byte("0123456789abcdef0123456789abcdef")
	t0      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload = validation.NewShape[domain.PublicUser](validation.MustCatalog("en"))
	user    = domain.PublicUser{
		ID:           "u-1",
		Name:         "ANA",
		FirstSurname: "LOPEZ",
		Email:        "ana@example.com",
		Tuition:      "A.000001",
		Role:         domain.RoleStudent,
	}
)

func clockAt(t time.Time) token.Option {
	return token.WithClock(func() time.Time { return t })
}

func TestRoundTrip(t *testing.T) {
	svc := token.NewService(clockAt(t0))

	raw, err := svc.Generate(secret, time.Hour, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	r := token.IsValid(svc, raw, secret, payload)
	if r.IsErr() {
		t.Fatalf("verify: %v", r.Error())
	}
	if r.Value() != user {
		t.Errorf("payload = %+v, want %+v", r.Value(), user)
	}
}

func TestGenerate_ClaimsCarryPayloadAndTimes(t *testing.T) {
	svc := token.NewService(clockAt(t0))
	raw, err := svc.Generate(secret, time.Hour, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d parts", len(parts))
	}
	body, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode claims: %v", err)
	}
	var claims map[string]any
	if err = json.Unmarshal(body, &claims); err != nil {
		t.Fatalf("unmarshal claims: %v", err)
	}

	if claims["email"] != user.Email {
		t.Errorf("email claim = %v", claims["email"])
	}
	if _, ok := claims["password"]; ok {
		t.Error("password must never be a claim")
	}
	if claims["iat"] != float64(t0.Unix()) || claims["exp"] != float64(t0.Add(time.Hour).Unix()) {
		t.Errorf("iat/exp = %v/%v", claims["iat"], claims["exp"])
	}
}

func TestIsValid_Failures(t *testing.T) {
	raw, err := token.NewService(clockAt(t0)).Generate(secret, time.Hour, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tampered := raw[:len(raw)-2] + flip(raw[len(raw)-2:])

	tests := []struct {
		name   string
		now    time.Time
		token  string
		secret []byte
		want   domain.TokenError
	}{
		{"expired", t0.Add(2 * time.Hour), raw, secret, domain.TokenExpired},
		{"wrong secret", t0, raw, []byte("another-secret-another-secret-!!"), domain.TokenInvalid},
		{"tampered signature", t0, tampered, secret, domain.TokenInvalid},
		{"tampered header", t0, "f" + raw[1:], secret, domain.TokenInvalid},
		{"tampered payload", t0, tamperPayload(raw), secret, domain.TokenInvalid},
		{"garbage", t0, "not.a.token", secret, domain.TokenInvalid},
		{"empty", t0, "", secret, domain.TokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := token.IsValid(token.NewService(clockAt(tt.now)), tt.token, tt.secret, payload)
			if r.IsOk() {
				t.Fatal("expected failure")
			}
			if r.Error() != tt.want {
				t.Errorf("error = %v, want %v", r.Error(), tt.want)
			}
		})
	}
}

func TestIsValid_LowBitOfLastCharacter_IsInvalid(t *testing.T) {
	svc := token.NewService(clockAt(t0))
	raw, err := svc.Generate(secret, time.Hour, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	last := len(raw) - 1
	tampered := raw[:last] + string(base64URL[strings.IndexByte(base64URL, raw[last])^1])

	r := token.IsValid(svc, tampered, secret, payload)
	if r.IsOk() || r.Error() != domain.TokenInvalid {
		t.Fatalf("tail %q -> %q: want TokenInvalid, got %+v", raw[last-2:], tampered[last-2:], r)
	}
}

func TestIsValid_AnyChangedCharacter_IsInvalid(t *testing.T) {
	svc := token.NewService(clockAt(t0))
	raw, err := svc.Generate(secret, time.Hour, user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	parts := strings.Split(raw, ".")

	for i := 0; i < len(raw); i++ {
		idx := strings.IndexByte(base64URL, raw[i])
		if idx < 0 {
			continue
		}
		tampered := raw[:i] + string(base64URL[idx^1]) + raw[i+1:]

		r := token.IsValid(svc, tampered, secret, payload)
		if r.IsOk() || r.Error() != domain.TokenInvalid {
			t.Fatalf("%s byte %d: want TokenInvalid, got %+v", segmentAt(parts, i), i, r)
		}
	}
}

func TestIsValid_ExpiredButTampered_IsInvalid(t *testing.T) {
	raw, _ := token.NewService(clockAt(t0)).Generate(secret, time.Hour, user)
	tampered := raw[:len(raw)-2] + flip(raw[len(raw)-2:])

	r := token.IsValid(token.NewService(clockAt(t0.Add(48*time.Hour))), tampered, secret, payload)
	if r.IsOk() || r.Error() != domain.TokenInvalid {
		t.Fatalf("want TokenInvalid, got %+v", r)
	}
}

func TestIsValid_PayloadMismatch_IsInvalid(t *testing.T) {
	svc := token.NewService(clockAt(t0))
	raw, err := svc.Generate(secret, time.Hour, map[string]any{"id": "u-1", "role": "admin"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	r := token.IsValid(svc, raw, secret, payload)
	if r.IsOk() || r.Error() != domain.TokenInvalid {
		t.Fatalf("want TokenInvalid, got %+v", r)
	}
}

func TestIsValid_StrictPayloadIgnoresTimeClaims(t *testing.T) {
	svc := token.NewService(clockAt(t0))
	raw, _ := svc.Generate(secret, time.Hour, user)

	r := token.IsValid(svc, raw, secret, payload.Strict())
	if r.IsErr() {
		t.Fatalf("iat/exp should be stripped before payload validation, got %v", r.Error())
	}
}

func TestGenerate_RejectsEmptySecret(t *testing.T) {
	if _, err := token.NewService().Generate(nil, time.Hour, user); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestGenerate_RejectsNonObjectPayload(t *testing.T) {
	if _, err := token.NewService().Generate(secret, time.Hour, "just a string"); err == nil {
		t.Fatal("expected error for non-object payload")
	}
}

func TestRandomCode(t *testing.T) {
	const alphabet = "ABC"
	code := token.RandomCode(alphabet, 32)
	if len(code) != 32 {
		t.Fatalf("len = %d", len(code))
	}
	for _, r := range code {
		if !strings.ContainsRune(alphabet, r) {
			t.Fatalf("unexpected rune %q", r)
		}
	}
}

func TestRandomCode_EmptyAlphabetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	token.RandomCode("", 6)
}

const base64URL = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func segmentAt(parts []string, i int) string {
	names := []string{"header", "payload", "signature"}
	for n, p := range parts {
		if i < len(p) {
			return names[n]
		}
		i -= len(p) + 1
	}
	return "separator"
}

// tamperPayload swaps the first payload character for a different one.
func tamperPayload(raw string) string {
	i := strings.IndexByte(raw, '.') + 1
	return raw[:i] + flip(raw[i:i+1]) + raw[i+1:]
}

// flip changes a base64url suffix into a different valid one.
func flip(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
	}
	return string(b)
}
