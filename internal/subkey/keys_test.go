package subkey

import (
	"errors"
	"testing"
)

func TestFormatNumericRefPadded(t *testing.T) {
	got := Format("dev0", "7", 0)
	want := "dev0/0007/01/0007_01.jpg"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatNonNumericRefUnpadded(t *testing.T) {
	got := Format("dev0", "abc", 3)
	want := "dev0/abc/04/abc_04.jpg"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatLongNumericRefNotTruncated(t *testing.T) {
	got := Format("dev0", "123456", 0)
	want := "dev0/123456/01/123456_01.jpg"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatTrimsReference(t *testing.T) {
	if got, want := Format("m", "  42 ", 1), Format("m", "42", 1); got != want {
		t.Errorf("expected trimmed ref to format as %q, got %q", want, got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	cases := []struct {
		domain string
		ref    string
		index  int
	}{
		{"dev0", "7", 0},
		{"dev0", "0007", 0},
		{"stockholm2025", "abc", 3},
		{"m", "12345", 11},
		{"m", "x-1", 99},
	}
	for _, c := range cases {
		key := Format(c.domain, c.ref, c.index)
		parsed, err := Parse(key)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", key, err)
		}
		if parsed.Domain != c.domain {
			t.Errorf("Parse(%q): domain %q, want %q", key, parsed.Domain, c.domain)
		}
		if parsed.OrderIndex != c.index {
			t.Errorf("Parse(%q): orderIndex %d, want %d", key, parsed.OrderIndex, c.index)
		}
		if parsed.ParticipantRef != DisplayRef(c.ref) {
			t.Errorf("Parse(%q): ref %q, want %q", key, parsed.ParticipantRef, DisplayRef(c.ref))
		}
		if parsed.String() != key {
			t.Errorf("round trip: %q reassembled as %q", key, parsed.String())
		}
	}
}

func TestParseMalformed(t *testing.T) {
	for _, key := range []string{
		"",
		"dev0",
		"dev0/0007/01",
		"dev0/0007/01/0007_01.jpg/extra",
		"dev0//01/x.jpg",
		"dev0/0007/xx/0007_01.jpg",
		"dev0/0007/00/0007_01.jpg",
		"dev0/0007/-1/0007_01.jpg",
	} {
		_, err := Parse(key)
		if err == nil {
			t.Errorf("Parse(%q): expected error, got nil", key)
			continue
		}
		var malformed *MalformedKeyError
		if !errors.As(err, &malformed) {
			t.Errorf("Parse(%q): expected MalformedKeyError, got %T", key, err)
		}
	}
}

func TestVariantKeys(t *testing.T) {
	key := Format("dev0", "7", 0)
	if got, want := ThumbnailKey(key), "dev0/0007/01/0007_01.webp"; got != want {
		t.Errorf("ThumbnailKey: expected %q, got %q", want, got)
	}
	if got, want := PreviewKey(key), "dev0/0007/01/0007_01_preview.jpg"; got != want {
		t.Errorf("PreviewKey: expected %q, got %q", want, got)
	}
}

func TestTermsKey(t *testing.T) {
	if got, want := TermsKey("dev0"), "dev0/terms-and-conditions.txt"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNextLogoKey(t *testing.T) {
	cases := []struct {
		current string
		want    string
	}{
		{"", "dev0/logo?v=1"},
		{"dev0/logo?v=1", "dev0/logo?v=2"},
		{"dev0/logo?v=41", "dev0/logo?v=42"},
		{"dev0/logo?v=junk", "dev0/logo?v=1"},
		{"dev0/logo", "dev0/logo?v=1"},
	}
	for _, c := range cases {
		if got := NextLogoKey("dev0", c.current); got != c.want {
			t.Errorf("NextLogoKey(%q): expected %q, got %q", c.current, c.want, got)
		}
	}
}

func TestLogoObjectKey(t *testing.T) {
	if got, want := LogoObjectKey("dev0/logo?v=3"), "dev0/logo"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got, want := LogoObjectKey("dev0/logo"), "dev0/logo"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
