// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import "strings"

// DefaultMaxChunkChars bounds the size of one embedded chunk.
const DefaultMaxChunkChars = 1500

// SplitChunks splits extracted document text into bounded paragraph
// groups. Paragraphs are accumulated greedily; when the next paragraph
// would push the buffer past maxChars the buffer is closed and a new
// one starts with that paragraph. A single paragraph longer than
// maxChars becomes its own oversized chunk - it is never split further.
// Empty input yields no chunks.
func SplitChunks(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	paragraphs := strings.Split(text, "\n")
	var chunks []string
	var current string
	for _, p := range paragraphs {
		if len(current)+len(p) > maxChars {
			chunks = append(chunks, strings.TrimSpace(current))
			current = "\n" + p
		} else {
			current += "\n" + p
		}
	}
	if current != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	// Drop chunks that are empty after trimming.
	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
