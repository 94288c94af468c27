package main

import "testing"

func TestGroupBySize(t *testing.T) {
	mb := int64(1024 * 1024)

	files := []fileWithSize{
		{key: "a", size: 300 * mb},
		{key: "b", size: 300 * mb},
		{key: "c", size: 150 * mb},
		{key: "d", size: 100 * mb},
	}

	groups := groupBySize(files, 500*mb)

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	for i, group := range groups {
		var total int64
		for _, f := range group {
			total += f.size
		}
		if total > 500*mb {
			t.Errorf("group %d exceeds limit: %d bytes", i, total)
		}
	}
}

func TestGroupBySizeOversizedFile(t *testing.T) {
	mb := int64(1024 * 1024)

	groups := groupBySize([]fileWithSize{
		{key: "huge", size: 900 * mb},
		{key: "small", size: 10 * mb},
	}, 500*mb)

	if len(groups) != 2 {
		t.Fatalf("expected oversized file in its own group, got %d groups", len(groups))
	}
	if groups[0][0].key != "huge" || len(groups[0]) != 1 {
		t.Errorf("expected first group to hold only the oversized file, got %v", groups[0])
	}
}

func TestArchiveEntry(t *testing.T) {
	got := archiveEntry("Open Class", "gbg2026/0042/01/0042_01.jpg")
	if got != "Open Class/0042_01.jpg" {
		t.Errorf("unexpected entry path: %q", got)
	}
}

func TestArchiveEntrySanitizesClassName(t *testing.T) {
	got := archiveEntry("juniors/2026", "gbg2026/0042/01/0042_01.jpg")
	if got != "juniors-2026/0042_01.jpg" {
		t.Errorf("unexpected entry path: %q", got)
	}
}

func TestArchiveEntryEmptyClassName(t *testing.T) {
	got := archiveEntry("", "gbg2026/0042/01/0042_01.jpg")
	if got != "0042_01.jpg" {
		t.Errorf("unexpected entry path: %q", got)
	}
}

func TestGroupBySizeEmpty(t *testing.T) {
	if groups := groupBySize(nil, 1024); groups != nil {
		t.Errorf("expected nil for empty input, got %v", groups)
	}
}
