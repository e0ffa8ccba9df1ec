package pdf

import (
	"strings"
)

// Measurer reports the rendered width of a string.
type Measurer interface {
	TextWidth(text string, font Font, size float64) float64
}

// WrapText splits text into lines no wider than width. Paragraph breaks in
// the input are kept, blank lines included; words wider than a line are
// broken between runes.
func WrapText(m Measurer, text string, font Font, size, width float64) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	paragraphs := strings.Split(text, "\n")
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if m.TextWidth(candidate, font, size) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			if m.TextWidth(word, font, size) <= width {
				current = word
				continue
			}
			pieces := breakWord(m, word, font, size, width)
			lines = append(lines, pieces[:len(pieces)-1]...)
			current = pieces[len(pieces)-1]
		}
		lines = append(lines, current)
	}
	return trimTrailingBlank(lines)
}

func breakWord(m Measurer, word string, font Font, size, width float64) []string {
	var pieces []string
	runes := []rune(word)
	start := 0
	for start < len(runes) {
		end := start + 1
		for end < len(runes) && m.TextWidth(string(runes[start:end+1]), font, size) <= width {
			end++
		}
		pieces = append(pieces, string(runes[start:end]))
		start = end
	}
	return pieces
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
