package main

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/strandhvilliam/vimmer-sub007/internal/subkey"
)

// --- Input Validation ---

// domainRegex matches marathon domain slugs: lowercase alphanumeric with
// hyphens, 1-63 chars, no leading/trailing hyphen.
var domainRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// participantRefRegex allows the reference formats marathons hand out:
// numeric bib numbers and short alphanumeric codes.
var participantRefRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{0,63}$`)

func validateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain is required")
	}
	if !domainRegex.MatchString(domain) {
		return fmt.Errorf("invalid domain")
	}
	return nil
}

func validateParticipantRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("participantRef is required")
	}
	if !participantRefRegex.MatchString(strings.TrimSpace(ref)) {
		return fmt.Errorf("invalid participantRef")
	}
	return nil
}

// validateSubmissionKey checks that key is a well-formed submission key and
// belongs to the given domain. A malformed key gets the parser's reason back
// so clients can correct it; a cross-domain key gets a generic rejection.
func validateSubmissionKey(domain, key string) error {
	parsed, err := subkey.Parse(key)
	if err != nil {
		var malformed *subkey.MalformedKeyError
		if errors.As(err, &malformed) {
			return fmt.Errorf("invalid key: %s", malformed.Reason)
		}
		return fmt.Errorf("invalid key")
	}
	if parsed.Domain != domain {
		return fmt.Errorf("key does not belong to domain")
	}
	return nil
}
