package textproc

import (
	"regexp"
	"strings"
)

// Stats holds coarse text statistics reported per processed file.
type Stats struct {
	NumSentences  int `json:"num_sentences"`
	NumWords      int `json:"num_words"`
	NumCharacters int `json:"num_characters"`
}

var (
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,6}[ \t]*`)
	hruleRe      = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	bulletRe     = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numberedRe   = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
	emphasisRe   = regexp.MustCompile("[*_`]")
	whitespaceRe = regexp.MustCompile(`\s+`)
	sentenceRe   = regexp.MustCompile(`[.!?]+`)
)

// Normalize lowercases text, strips structural markdown markup, and collapses
// whitespace. It is deterministic and idempotent: running it on already
// normalized text is a no-op.
func Normalize(text string) string {
	text = hruleRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "")
	text = numberedRe.ReplaceAllString(text, "")
	text = headingRe.ReplaceAllString(text, "")
	text = imageRe.ReplaceAllString(text, "$1")
	text = linkRe.ReplaceAllString(text, "$1")
	text = emphasisRe.ReplaceAllString(text, "")
	text = strings.ToLower(text)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Measure computes sentence, word, and character counts for text. Sentences
// are bounded by runs of terminator punctuation; a trailing fragment without
// a terminator still counts as a sentence.
func Measure(text string) Stats {
	return Stats{
		NumSentences:  sentenceCount(text),
		NumWords:      len(strings.Fields(text)),
		NumCharacters: len([]rune(text)),
	}
}

// Preprocess normalizes text and measures the result.
func Preprocess(text string) (string, Stats) {
	normalized := Normalize(text)
	return normalized, Measure(normalized)
}

func sentenceCount(text string) int {
	count := 0
	for _, part := range sentenceRe.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}
