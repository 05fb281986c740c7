package language_test

import (
	"testing"

	"airdate/internal/language"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"te", "te"},
		{"TE", "te"},
		{" en ", "en"},
		{"pt-BR", "pt-BR"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := language.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !language.Equal("TE", "te") {
		t.Fatal("expected TE and te to compare equal")
	}
	if language.Equal("te", "en") {
		t.Fatal("expected te and en to differ")
	}
	if language.Equal("", "en") {
		t.Fatal("expected empty code to never match")
	}
}

func TestValid(t *testing.T) {
	if !language.Valid("te") {
		t.Fatal("expected te to be valid")
	}
	if language.Valid("") {
		t.Fatal("expected empty code to be invalid")
	}
}

func TestDisplayName(t *testing.T) {
	if got := language.DisplayName("te"); got != "Telugu" {
		t.Fatalf("DisplayName(te) = %q, want Telugu", got)
	}
	if got := language.DisplayName(""); got != "Unknown" {
		t.Fatalf("DisplayName(empty) = %q, want Unknown", got)
	}
}
