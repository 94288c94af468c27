package main

import "testing"

func TestValidateDomain(t *testing.T) {
	valid := []string{"gbg2026", "dev0", "photo-marathon", "a"}
	for _, d := range valid {
		if err := validateDomain(d); err != nil {
			t.Errorf("validateDomain(%q) = %v, want nil", d, err)
		}
	}

	invalid := []string{"", "UPPER", "-leading", "trailing-", "has space", "a/b", "dot.com"}
	for _, d := range invalid {
		if err := validateDomain(d); err == nil {
			t.Errorf("validateDomain(%q) = nil, want error", d)
		}
	}
}

func TestValidateParticipantRef(t *testing.T) {
	valid := []string{"42", "0042", "abc", "team_7", "A-1", "  42  "}
	for _, ref := range valid {
		if err := validateParticipantRef(ref); err != nil {
			t.Errorf("validateParticipantRef(%q) = %v, want nil", ref, err)
		}
	}

	invalid := []string{"", "   ", "a/b", "-leading", "ref with space"}
	for _, ref := range invalid {
		if err := validateParticipantRef(ref); err == nil {
			t.Errorf("validateParticipantRef(%q) = nil, want error", ref)
		}
	}
}

func TestValidateSubmissionKey(t *testing.T) {
	if err := validateSubmissionKey("gbg2026", "gbg2026/0042/01/0042_01.jpg"); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}

	// Key from a different marathon must be rejected even when well-formed.
	if err := validateSubmissionKey("gbg2026", "other2026/0042/01/0042_01.jpg"); err == nil {
		t.Error("expected cross-domain key to be rejected")
	}

	malformed := []string{
		"",
		"gbg2026/0042/0042_01.jpg",
		"gbg2026//01/0042_01.jpg",
		"gbg2026/0042/xx/0042_01.jpg",
		"gbg2026/0042/00/0042_00.jpg",
	}
	for _, key := range malformed {
		if err := validateSubmissionKey("gbg2026", key); err == nil {
			t.Errorf("validateSubmissionKey(%q) = nil, want error", key)
		}
	}
}
