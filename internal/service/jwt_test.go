package service

import "testing"

func TestJWTRoundTrip(t *testing.T) {
	InitJWTWithSecret("test-secret")

	token, err := GenerateJWT("user-123")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	sub, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if sub != "user-123" {
		t.Fatalf("sub = %q; want user-123", sub)
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	InitJWTWithSecret("test-secret")

	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	InitJWTWithSecret("secret-one")
	token, err := GenerateJWT("user-123")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	InitJWTWithSecret("secret-two")
	if _, err := ParseJWT(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}
