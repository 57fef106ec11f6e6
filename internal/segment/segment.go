// Package segment turns raw or lightly structured text into an ordered,
// indexed sentence stream. Headings and paragraphs are hard boundaries:
// a sentence never spans two structural units.
package segment

import (
	"strings"

	"github.com/lectorapp/lector/internal/document"
)

// Unit is a single structural block (heading or paragraph) with its
// markers already neutralized to plain text.
type Unit struct {
	Text    string
	Context document.Context
}

// Segment splits structured text into sentences with contiguous indices
// starting at 0, in document order across all structural units.
// It is deterministic: identical input yields an identical sequence.
func Segment(text string) []document.Sentence {
	var sentences []document.Sentence
	for _, unit := range Units(text) {
		for _, s := range splitUnit(unit.Text) {
			sentences = append(sentences, document.Sentence{
				Index:   len(sentences),
				Text:    s,
				Context: unit.Context,
			})
		}
	}
	return sentences
}

// Units partitions text into structural blocks. Lines starting with one to
// six '#' markers are headings; blank-line separated blocks are paragraphs.
// Inline emphasis markers are stripped so sentence scanning sees plain text.
func Units(text string) []Unit {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var units []Unit
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		body := neutralizeEmphasis(strings.Join(para, " "))
		if strings.TrimSpace(body) != "" {
			units = append(units, Unit{Text: body, Context: document.ContextParagraph})
		}
		para = para[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if depth := headingDepth(trimmed); depth > 0 {
			flush()
			body := neutralizeEmphasis(strings.TrimSpace(trimmed[depth:]))
			if body != "" {
				units = append(units, Unit{Text: body, Context: document.ContextHeading})
			}
			continue
		}
		para = append(para, trimmed)
	}
	flush()

	// Plain text with no structure at all stays a single plain unit.
	if len(units) == 1 && units[0].Context == document.ContextParagraph && !strings.Contains(text, "\n\n") {
		units[0].Context = document.ContextPlain
	}

	return units
}

// splitUnit scans one structural unit left to right and cuts at each run of
// terminal punctuation followed by whitespace or end-of-unit. A unit with no
// terminal punctuation is itself one sentence. Consecutive punctuation
// ("...", "?!") produces a single boundary, never empty sentences.
func splitUnit(text string) []string {
	var out []string
	start := 0

	for i := 0; i < len(text); i++ {
		if !isTerminal(text[i]) {
			continue
		}
		// Swallow the whole punctuation run.
		for i+1 < len(text) && isTerminal(text[i+1]) {
			i++
		}
		if i+1 < len(text) && !isSpace(text[i+1]) {
			continue
		}
		if chunk := strings.TrimSpace(text[start : i+1]); chunk != "" {
			out = append(out, chunk)
		}
		start = i + 1
	}

	if tail := strings.TrimSpace(text[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

// headingDepth returns the marker depth (1-6) if line is a heading, else 0.
func headingDepth(line string) int {
	depth := 0
	for depth < len(line) && line[depth] == '#' {
		depth++
	}
	if depth < 1 || depth > 6 {
		return 0
	}
	if depth == len(line) || line[depth] != ' ' {
		return 0
	}
	return depth
}

// neutralizeEmphasis strips inline emphasis markers, collapsing runs of
// whitespace so the scanner sees stable boundaries.
func neutralizeEmphasis(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		switch r {
		case '*', '_', '`':
			continue
		default:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func isTerminal(ch byte) bool {
	return ch == '.' || ch == '!' || ch == '?'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\n' || ch == '\t'
}
