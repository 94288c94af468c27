// Package subkey defines the canonical storage-key addressing scheme for
// marathon submissions. Every submission object lives at a deterministic key
// derived from the tenant domain, the participant's reference code, and the
// photo slot index, so re-uploads and re-processing always target the same
// object. The same scheme drives the mirrored keys in the thumbnail and
// preview buckets and the versioned settings keys (logo, terms).
package subkey

import (
	"fmt"
	"strconv"
	"strings"
)

// MalformedKeyError reports a storage key that does not match the
// domain/ref/index/filename shape produced by Format.
type MalformedKeyError struct {
	Key    string
	Reason string
}

func (e *MalformedKeyError) Error() string {
	return fmt.Sprintf("malformed submission key %q: %s", e.Key, e.Reason)
}

// SubmissionKey is the decomposed form of a canonical submission storage key.
type SubmissionKey struct {
	Domain         string
	ParticipantRef string
	OrderIndex     int
	FileName       string
}

// String reassembles the canonical key. Format(k.Domain, k.ParticipantRef,
// k.OrderIndex) == k.String() for any key returned by Parse.
func (k SubmissionKey) String() string {
	return Format(k.Domain, k.ParticipantRef, k.OrderIndex)
}

// DisplayRef normalizes a participant reference for key construction:
// trimmed, and left-padded with zeros to 4 digits when the reference is
// purely numeric. Non-numeric references pass through unmodified, and
// references longer than 4 digits are never truncated.
func DisplayRef(participantRef string) string {
	ref := strings.TrimSpace(participantRef)
	if ref == "" || !isDigits(ref) {
		return ref
	}
	for len(ref) < 4 {
		ref = "0" + ref
	}
	return ref
}

// Format builds the canonical storage key for one submission slot:
//
//	{domain}/{displayRef}/{displayIndex}/{displayRef}_{displayIndex}.jpg
//
// where displayIndex is orderIndex+1 zero-padded to two digits. The result
// is deterministic; it doubles as the idempotency anchor for re-upload and
// re-processing. Callers are responsible for passing a non-empty domain and
// reference and a non-negative orderIndex.
func Format(domain, participantRef string, orderIndex int) string {
	ref := DisplayRef(participantRef)
	idx := fmt.Sprintf("%02d", orderIndex+1)
	return domain + "/" + ref + "/" + idx + "/" + ref + "_" + idx + ".jpg"
}

// Parse is the inverse of Format. It extracts the domain, participant
// reference, zero-based order index, and filename from a canonical key.
//
// The round trip is exact for the order index and domain. The participant
// reference is returned as it appears in the key: a numeric reference that
// was shorter than 4 digits at Format time comes back zero-padded ("7"
// formats to "0007" and parses back as "0007"). Format is the only writer
// of keys, so canonical comparisons should go through Format rather than
// comparing raw references.
func Parse(key string) (SubmissionKey, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 4 {
		return SubmissionKey{}, &MalformedKeyError{Key: key, Reason: "expected 4 segments"}
	}
	for _, p := range parts {
		if p == "" {
			return SubmissionKey{}, &MalformedKeyError{Key: key, Reason: "empty segment"}
		}
	}

	idx, err := strconv.Atoi(parts[2])
	if err != nil || idx < 1 {
		return SubmissionKey{}, &MalformedKeyError{Key: key, Reason: "index segment is not a positive integer"}
	}

	return SubmissionKey{
		Domain:         parts[0],
		ParticipantRef: parts[1],
		OrderIndex:     idx - 1,
		FileName:       parts[3],
	}, nil
}

// ThumbnailKey maps an original submission key to its mirrored key in the
// thumbnail bucket. Thumbnails are encoded as WebP.
func ThumbnailKey(originalKey string) string {
	return strings.TrimSuffix(originalKey, ".jpg") + ".webp"
}

// PreviewKey maps an original submission key to its mirrored key in the
// preview bucket.
func PreviewKey(originalKey string) string {
	return strings.TrimSuffix(originalKey, ".jpg") + "_preview.jpg"
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
