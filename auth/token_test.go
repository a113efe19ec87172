package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-for-token-tests"

func newTestIssuer(t *testing.T, lifetime time.Duration, now func() time.Time) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(testSecret, lifetime)
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}
	if now != nil {
		issuer.now = now
	}
	return issuer
}

func newTestVerifier(t *testing.T, secret string, now func() time.Time) *TokenVerifier {
	t.Helper()
	verifier, err := NewTokenVerifier(secret)
	if err != nil {
		t.Fatalf("NewTokenVerifier failed: %v", err)
	}
	if now != nil {
		verifier.now = now
	}
	return verifier
}

func TestNewTokenIssuerRejectsEmptySecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
	if _, err := NewTokenVerifier(""); err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour, nil)
	verifier := newTestVerifier(t, testSecret, nil)

	token, err := issuer.Issue(&User{ID: 42, Username: "alice"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "alice")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, time.Hour, func() time.Time { return issuedAt })

	token, err := issuer.Issue(&User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Just before expiry the token is accepted, just after it is not.
	beforeExpiry := newTestVerifier(t, testSecret, func() time.Time {
		return issuedAt.Add(time.Hour - time.Second)
	})
	if _, err := beforeExpiry.Verify(token); err != nil {
		t.Fatalf("Verify just before expiry failed: %v", err)
	}

	afterExpiry := newTestVerifier(t, testSecret, func() time.Time {
		return issuedAt.Add(time.Hour + time.Second)
	})
	if _, err := afterExpiry.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify after expiry = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour, nil)
	verifier := newTestVerifier(t, testSecret, nil)

	token, err := issuer.Issue(&User{ID: 7, Username: "carol"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := verifier.Verify(tampered); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("Verify(tampered) = %v, want ErrTokenSignatureInvalid", err)
	}
}

func TestVerifyWrongSecretBeatsExpiryCheck(t *testing.T) {
	// A token signed with a different secret fails on the signature even
	// when its payload is expired, because the signature is checked before
	// any payload field is trusted.
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	otherIssuer, err := NewTokenIssuer("a-completely-different-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}
	otherIssuer.now = func() time.Time { return issuedAt }

	token, err := otherIssuer.Issue(&User{ID: 9, Username: "mallory"})
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	verifier := newTestVerifier(t, testSecret, func() time.Time {
		return issuedAt.Add(48 * time.Hour)
	})
	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("Verify(wrong secret) = %v, want ErrTokenSignatureInvalid", err)
	}
}

func TestVerifyMalformedTokens(t *testing.T) {
	verifier := newTestVerifier(t, testSecret, nil)

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "abc.def"},
		{"four segments", "a.b.c.d"},
		{"empty segment", "a..c"},
		{"undecodable segments", "x.y.z"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := verifier.Verify(tc.token); !errors.Is(err, ErrTokenMalformed) {
				t.Fatalf("Verify(%q) = %v, want ErrTokenMalformed", tc.token, err)
			}
		})
	}
}
