// Package variant resolves the best available display URL for a submission
// from its original, thumbnail, and preview storage keys. Thumbnails are
// generated out of band, so early in a submission's life only the original
// (or nothing) exists; the resolution order keeps the UI showing the best
// asset available at each stage.
package variant

// Submission carries the storage-key state of one submission record. Empty
// strings mean the corresponding asset does not exist (yet).
type Submission struct {
	Key          string
	ThumbnailKey string
	PreviewKey   string
}

// ResolveDisplayURL picks the display URL for a submission, in order of
// preference:
//
//  1. thumbnail, when generated (cheapest to serve)
//  2. nothing, when no original has been uploaded
//  3. preview, when generated and a preview base URL is configured
//  4. the raw original, when a submission base URL is configured
//  5. nothing
//
// Returns "" when there is nothing to show. Pure; never fails.
func ResolveDisplayURL(sub Submission, thumbnailBaseURL, submissionBaseURL, previewBaseURL string) string {
	if sub.ThumbnailKey != "" {
		return thumbnailBaseURL + "/" + sub.ThumbnailKey
	}
	if sub.Key == "" {
		return ""
	}
	if sub.PreviewKey != "" && previewBaseURL != "" {
		return previewBaseURL + "/" + sub.PreviewKey
	}
	if submissionBaseURL != "" {
		return submissionBaseURL + "/" + sub.Key
	}
	return ""
}
