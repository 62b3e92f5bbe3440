package usecases

import (
	"strings"
	"testing"
)

func TestSplitChunksEmptyInput(t *testing.T) {
	if got := SplitChunks("", 100); len(got) != 0 {
		t.Errorf("expected no chunks, got %v", got)
	}
	if got := SplitChunks("\n\n\n", 100); len(got) != 0 {
		t.Errorf("expected no chunks for blank lines, got %v", got)
	}
}

func TestSplitChunksBoundary(t *testing.T) {
	got := SplitChunks("aaaaa\nbbbbb\nccccc", 10)
	want := []string{"aaaaa", "bbbbb", "ccccc"}
	if len(got) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitChunksGroupsSmallParagraphs(t *testing.T) {
	got := SplitChunks("aa\nbb\ncc", 100)
	if len(got) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %v", len(got), got)
	}
	if got[0] != "aa\nbb\ncc" {
		t.Errorf("unexpected chunk content: %q", got[0])
	}
}

func TestSplitChunksOversizedParagraph(t *testing.T) {
	long := strings.Repeat("x", 50)
	got := SplitChunks("short\n"+long+"\ntail", 10)
	found := false
	for _, c := range got {
		if c == long {
			found = true
		}
	}
	if !found {
		t.Errorf("oversized paragraph should survive intact, got %v", got)
	}
}

func TestSplitChunksNoEmptyChunks(t *testing.T) {
	got := SplitChunks("a\n\n\nb\n\nc", 3)
	for i, c := range got {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitChunksPreservesAllText(t *testing.T) {
	input := "alpha beta\ngamma\ndelta epsilon\nzeta"
	got := SplitChunks(input, 15)
	joined := strings.Join(got, "\n")
	for _, word := range strings.Fields(input) {
		if !strings.Contains(joined, word) {
			t.Errorf("word %q missing from chunks %v", word, got)
		}
	}
}

func TestSplitChunksDefaultsMaxChars(t *testing.T) {
	text := strings.Repeat("word ", 100)
	got := SplitChunks(text, 0)
	if len(got) != 1 {
		t.Errorf("expected 1 chunk with default limit, got %d", len(got))
	}
}
