package auth

import (
	"testing"
	"time"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	issuer, err := NewIssuer("test-secret", TokenTTL)
	if err != nil {
		t.Fatalf("NewIssuer() error = %v", err)
	}
	return issuer
}

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("", TokenTTL)
	if err != ErrSecretRequired {
		t.Errorf("NewIssuer(\"\") error = %v, want ErrSecretRequired", err)
	}
}

func TestIssuer_IssueAndValidate(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	userID, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("Validate() userID = %d, want 42", userID)
	}
}

func TestIssuer_Validate_Expired(t *testing.T) {
	issuer := newTestIssuer(t)

	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Just inside the window
	issuer.now = func() time.Time { return issued.Add(TokenTTL - time.Minute) }
	if _, err := issuer.Validate(token); err != nil {
		t.Errorf("Validate() before expiry error = %v", err)
	}

	// Just past the window: strict, no leeway
	issuer.now = func() time.Time { return issued.Add(TokenTTL + time.Second) }
	if _, err := issuer.Validate(token); err != ErrTokenExpired {
		t.Errorf("Validate() after expiry error = %v, want ErrTokenExpired", err)
	}
}

func TestIssuer_Validate_TamperedToken(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip a character in the signature segment
	tampered := []byte(token)
	last := len(tampered) - 1
	if tampered[last] == 'A' {
		tampered[last] = 'B'
	} else {
		tampered[last] = 'A'
	}

	if _, err := issuer.Validate(string(tampered)); err != ErrInvalidToken {
		t.Errorf("Validate(tampered) error = %v, want ErrInvalidToken", err)
	}
}

func TestIssuer_Validate_WrongSecret(t *testing.T) {
	issuer := newTestIssuer(t)
	other, err := NewIssuer("other-secret", TokenTTL)
	if err != nil {
		t.Fatalf("NewIssuer() error = %v", err)
	}

	token, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate() with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestIssuer_Validate_Garbage(t *testing.T) {
	issuer := newTestIssuer(t)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Validate(token); err != ErrInvalidToken {
			t.Errorf("Validate(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}
