package audio

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	headingExpr = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	boldExpr    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicExpr  = regexp.MustCompile(`\*([^*]+)\*`)
	newlineExpr = regexp.MustCompile(`\s*\n\s*`)
	multiSpace  = regexp.MustCompile(` {2,}`)
)

// Chunk splits text into pieces each at most ceiling characters, closing a
// chunk only on sentence boundaries. Text already within the ceiling comes
// back as a single chunk. If the sentence pass yields nothing, the original
// text is truncated to fit and returned as one chunk.
func Chunk(text string, ceiling int) []string {
	text = strings.TrimSpace(text)
	if text == "" || ceiling <= 0 {
		return nil
	}
	if utf8.RuneCountInString(text) <= ceiling {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, sentence := range splitSentences(text) {
		sentenceLen := utf8.RuneCountInString(sentence)
		if sentenceLen > ceiling {
			// A lone sentence over the ceiling cannot be placed whole;
			// truncating it is the only way to keep the chunk bound.
			sentence = truncateRunes(sentence, ceiling)
			sentenceLen = ceiling
		}

		// +1 accounts for the joining space.
		if currentLen > 0 && currentLen+1+sentenceLen > ceiling {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}

		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(sentence)
		currentLen += sentenceLen
	}

	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}

	if len(chunks) == 0 {
		return []string{truncateRunes(text, ceiling)}
	}
	return chunks
}

// splitSentences cuts on ., ! and ?, keeping the terminator with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// CleanForNarration strips markdown heading, bold and italic markers and
// collapses newlines to spaces so the synthesizer never reads markup aloud.
func CleanForNarration(text string) string {
	text = headingExpr.ReplaceAllString(text, "")
	text = boldExpr.ReplaceAllString(text, "$1")
	text = italicExpr.ReplaceAllString(text, "$1")
	text = newlineExpr.ReplaceAllString(text, " ")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
