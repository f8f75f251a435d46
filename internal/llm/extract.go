package llm

import (
	"fmt"
	"strings"
)

// ExtractAfterTag strips a leading reasoning segment from model output by
// locating the closing tag (e.g. "</think>") and returning only the text
// that follows it. If the tag is absent the input is returned unmodified.
func ExtractAfterTag(text, tag string) string {
	closing := fmt.Sprintf("</%s>", tag)
	idx := strings.Index(text, closing)
	if idx == -1 {
		return text
	}
	return strings.TrimSpace(text[idx+len(closing):])
}
