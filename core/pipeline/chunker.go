package pipeline

import (
	"fmt"
	"strings"
)

// DefaultChunker creates a sliding window chunker with the default window of
// 1000 characters and an overlap of 200 characters.
func DefaultChunker() ChunkFunc {
	return WindowChunker(1000, 200)
}

// WindowChunker creates a chunker that slides a fixed-size window over the
// text. Consecutive chunks share overlap characters, so the window advances by
// size-overlap per step. The overlap must be smaller than the size.
func WindowChunker(size int, overlap int) ChunkFunc {
	return func(text string) ([]string, error) {
		if size <= 0 {
			return nil, fmt.Errorf("chunk size must be positive, got %d", size)
		}
		if overlap < 0 || overlap >= size {
			return nil, fmt.Errorf("overlap must be non-negative and smaller than chunk size, got overlap %d for size %d", overlap, size)
		}

		if text == "" {
			return []string{}, nil
		}

		runes := []rune(text)
		step := size - overlap

		// The window advances until its start passes the text end, so a text
		// ending exactly on a step boundary still gets a trailing overlap-only
		// chunk.
		var chunks []string
		for start := 0; start < len(runes); start += step {
			end := start + size
			if end > len(runes) {
				end = len(runes)
			}

			chunks = append(chunks, string(runes[start:end]))
		}

		return chunks, nil
	}
}

// ParagraphChunker creates a chunker that splits by paragraphs
func ParagraphChunker() ChunkFunc {
	return func(text string) ([]string, error) {
		paragraphs := strings.Split(text, "\n\n")

		var chunks []string
		for _, para := range paragraphs {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}

			chunks = append(chunks, para)
		}

		return chunks, nil
	}
}
