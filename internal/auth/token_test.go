package auth

import "testing"

func TestOwnerTokenResolve(t *testing.T) {
	hash, err := HashToken("s3cret")
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}

	ot := NewOwnerToken("0xowner", hash)

	owner, ok := ot.Resolve("s3cret")
	if !ok {
		t.Fatalf("valid token rejected")
	}
	if owner != "0xowner" {
		t.Fatalf("expected owner identity, got %q", owner)
	}

	if _, ok := ot.Resolve("wrong"); ok {
		t.Fatalf("invalid token accepted")
	}
	if _, ok := ot.Resolve(""); ok {
		t.Fatalf("empty token accepted")
	}
}

func TestOwnerTokenDisabledWithoutHash(t *testing.T) {
	ot := NewOwnerToken("0xowner", "")
	if _, ok := ot.Resolve("anything"); ok {
		t.Fatalf("resolution should be disabled without a hash")
	}
}
