package variant

import "testing"

func TestResolveNothingUploaded(t *testing.T) {
	got := ResolveDisplayURL(Submission{}, "T", "S", "P")
	if got != "" {
		t.Errorf("expected empty URL, got %q", got)
	}
}

func TestResolveThumbnailAlwaysWins(t *testing.T) {
	got := ResolveDisplayURL(Submission{Key: "k", ThumbnailKey: "t", PreviewKey: "p"}, "T", "S", "P")
	if got != "T/t" {
		t.Errorf("expected T/t, got %q", got)
	}
}

func TestResolveThumbnailWithoutOriginal(t *testing.T) {
	// A thumbnail key with no original key should not happen, but the
	// thumbnail still wins if it does.
	got := ResolveDisplayURL(Submission{ThumbnailKey: "t"}, "T", "S", "P")
	if got != "T/t" {
		t.Errorf("expected T/t, got %q", got)
	}
}

func TestResolvePreviewFallback(t *testing.T) {
	got := ResolveDisplayURL(Submission{Key: "k", PreviewKey: "p"}, "T", "S", "P")
	if got != "P/p" {
		t.Errorf("expected P/p, got %q", got)
	}
}

func TestResolveOriginalFallback(t *testing.T) {
	got := ResolveDisplayURL(Submission{Key: "k"}, "T", "S", "")
	if got != "S/k" {
		t.Errorf("expected S/k, got %q", got)
	}
}

func TestResolvePreviewSkippedWithoutBaseURL(t *testing.T) {
	got := ResolveDisplayURL(Submission{Key: "k", PreviewKey: "p"}, "T", "S", "")
	if got != "S/k" {
		t.Errorf("expected S/k, got %q", got)
	}
}

func TestResolveNoBaseURLs(t *testing.T) {
	got := ResolveDisplayURL(Submission{Key: "k"}, "T", "", "")
	if got != "" {
		t.Errorf("expected empty URL, got %q", got)
	}
}
