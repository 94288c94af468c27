package subkey

import (
	"strconv"
	"strings"
)

// TermsKey returns the settings-bucket key for a marathon's terms and
// conditions document.
func TermsKey(domain string) string {
	return domain + "/terms-and-conditions.txt"
}

// NextLogoKey returns a fresh versioned logo key for the domain. Logo keys
// carry an incrementing version in their query string ({domain}/logo?v=N) so
// CDN caches are busted on replacement. currentKey is the marathon's stored
// logo key, or empty when no logo has been uploaded yet; an unparsable
// version restarts at 1.
func NextLogoKey(domain, currentKey string) string {
	version := 1
	if i := strings.Index(currentKey, "?v="); i >= 0 {
		if v, err := strconv.Atoi(currentKey[i+3:]); err == nil && v > 0 {
			version = v + 1
		}
	}
	return domain + "/logo?v=" + strconv.Itoa(version)
}

// LogoObjectKey strips the version query from a logo key, yielding the raw
// S3 object key the presigned PUT must target.
func LogoObjectKey(logoKey string) string {
	if i := strings.Index(logoKey, "?"); i >= 0 {
		return logoKey[:i]
	}
	return logoKey
}
