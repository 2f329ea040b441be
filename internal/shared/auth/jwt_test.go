package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signHS256(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(subject string) *Claims {
	return &Claims{
		Email: "ops@omnix.ai",
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestValidateAcceptsSignedToken(t *testing.T) {
	t.Parallel()

	v := NewJWTValidator(testSecret)
	token := signHS256(t, testSecret, validClaims("u1"))

	claims, err := v.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID() != "u1" {
		t.Fatalf("unexpected user id: %q", claims.UserID())
	}
	if claims.Email != "ops@omnix.ai" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	v := NewJWTValidator(testSecret)
	if _, err := v.Validate("  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	v := NewJWTValidator(testSecret)
	token := signHS256(t, "other-secret", validClaims("u1"))

	if _, err := v.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateAcceptsTokenWithinExpiryLeeway(t *testing.T) {
	t.Parallel()

	claims := validClaims("u1")
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Second))

	v := NewJWTValidator(testSecret)
	got, err := v.Validate(signHS256(t, testSecret, claims))
	if err != nil {
		t.Fatalf("expected token inside the leeway window to validate, got %v", err)
	}
	if got.UserID() != "u1" {
		t.Fatalf("unexpected user id: %q", got.UserID())
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	claims := validClaims("u1")
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	v := NewJWTValidator(testSecret)
	if _, err := v.Validate(signHS256(t, testSecret, claims)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsMissingSubject(t *testing.T) {
	t.Parallel()

	claims := validClaims("")

	v := NewJWTValidator(testSecret)
	if _, err := v.Validate(signHS256(t, testSecret, claims)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	t.Parallel()

	v := NewJWTValidator(testSecret)
	if _, err := v.Validate("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateRejectsWhenUnconfigured(t *testing.T) {
	t.Parallel()

	v := NewJWTValidator("")
	token := signHS256(t, testSecret, validClaims("u1"))
	if _, err := v.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidatorFallsBackToSecretWithoutPublicKey(t *testing.T) {
	t.Parallel()

	v := NewJWTValidatorWithPublicKey(testSecret, "")
	token := signHS256(t, testSecret, validClaims("u1"))

	claims, err := v.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID() != "u1" {
		t.Fatalf("unexpected user id: %q", claims.UserID())
	}
}
