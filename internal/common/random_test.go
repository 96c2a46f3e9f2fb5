package common

import (
	"encoding/base64"
	"testing"
)

func TestMakeRandToken_DecodesToRequestedSize(t *testing.T) {
	s, err := MakeRandToken(RefreshTokenSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("token is not base64url: %v", err)
	}
	if len(raw) != RefreshTokenSize {
		t.Fatalf("expected %d raw bytes, got %d", RefreshTokenSize, len(raw))
	}
}

func TestMakeRandToken_ZeroSize(t *testing.T) {
	s, err := MakeRandToken(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

func TestMakeRandToken_NoRepeats(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		s, err := MakeRandToken(RefreshTokenSize)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, dup := seen[s]; dup {
			t.Fatalf("duplicate token after %d draws", i)
		}
		seen[s] = struct{}{}
	}
}
