package timeutil

import (
	"testing"
	"time"
)

func TestParseTTLDefault(t *testing.T) {
	d, err := ParseTTL("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 24*time.Hour {
		t.Fatalf("expected 24h, got %v", d)
	}
}

func TestParseTTLNever(t *testing.T) {
	for _, in := range []string{"0", "never", " Never "} {
		d, err := ParseTTL(in)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", in, err)
		}
		if d != 0 {
			t.Fatalf("%q: expected 0, got %v", in, d)
		}
	}
}

func TestParseTTLComposite(t *testing.T) {
	d, err := ParseTTL("1w2d6h30m")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (7*24+2*24+6)*time.Hour + 30*time.Minute
	if d != want {
		t.Fatalf("expected %v, got %v", want, d)
	}
	if got := FormatTTL(d); got != "1w2d6h30m" {
		t.Fatalf("unexpected label: %s", got)
	}
}

func TestParseTTLInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3y", "0h"} {
		if _, err := ParseTTL(in); err == nil {
			t.Fatalf("%q: expected error", in)
		}
	}
}

func TestFormatTTLZero(t *testing.T) {
	if got := FormatTTL(0); got != "never" {
		t.Fatalf("expected never, got %s", got)
	}
}
