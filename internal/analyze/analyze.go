// Package analyze computes the accessibility-barrier report for a document.
// Analysis is a pure function over (rawText, sentences): identical input
// always yields an identical report.
package analyze

import (
	"fmt"
	"strings"

	"github.com/lectorapp/lector/internal/document"
)

const (
	// avgWordsThreshold is the mean words-per-sentence above which the
	// complexity signal fires.
	avgWordsThreshold = 20.0

	// structureMinSentences is the sentence count above which a document
	// without any heading markers is flagged.
	structureMinSentences = 10

	// densityThreshold is the chars-per-paragraph ratio above which the
	// density signal fires.
	densityThreshold = 500.0
)

// severityPenalty maps issue severity to its score deduction.
var severityPenalty = map[document.Severity]int{
	document.SeverityHigh:   15,
	document.SeverityMedium: 8,
	document.SeverityLow:    3,
}

// headingMarkers are the substrings that count as structural markers in the
// raw text for the document-structure signal.
var headingMarkers = []string{"#", "chapter", "section"}

// Analyze runs all barrier signals against the raw text and sentence stream
// and derives the score, risk tier, and single recommendation. Each signal
// fires at most once; all applicable signals fire independently.
func Analyze(rawText string, sentences []document.Sentence) document.Report {
	var issues []document.Issue

	if issue, ok := complexitySignal(sentences); ok {
		issues = append(issues, issue)
	}
	if issue, ok := structureSignal(rawText, sentences); ok {
		issues = append(issues, issue)
	}
	if issue, ok := densitySignal(rawText); ok {
		issues = append(issues, issue)
	}

	score := 100
	for _, issue := range issues {
		score -= severityPenalty[issue.Severity]
	}
	if score < 0 {
		score = 0
	}

	return document.Report{
		Issues:         issues,
		Score:          score,
		Risk:           riskLevel(score),
		Recommendation: recommendation(issues),
	}
}

// complexitySignal flags documents whose mean sentence length exceeds the
// readability threshold.
func complexitySignal(sentences []document.Sentence) (document.Issue, bool) {
	if len(sentences) == 0 {
		return document.Issue{}, false
	}
	total := 0
	for _, s := range sentences {
		total += len(strings.Fields(s.Text))
	}
	avg := float64(total) / float64(len(sentences))
	if avg <= avgWordsThreshold {
		return document.Issue{}, false
	}
	return document.Issue{
		Type:        document.IssueSentenceComplexity,
		Severity:    document.SeverityHigh,
		Description: fmt.Sprintf("Average sentence length is %.0f words", avg),
		Impact:      "Long sentences are hard to follow with a screen reader and strain working memory",
	}, true
}

// structureSignal flags longer documents that carry no heading, chapter, or
// section markers at all.
func structureSignal(rawText string, sentences []document.Sentence) (document.Issue, bool) {
	if len(sentences) <= structureMinSentences {
		return document.Issue{}, false
	}
	lower := strings.ToLower(rawText)
	for _, marker := range headingMarkers {
		if strings.Contains(lower, marker) {
			return document.Issue{}, false
		}
	}
	return document.Issue{
		Type:        document.IssueDocumentStructure,
		Severity:    document.SeverityMedium,
		Description: "No headings or section markers found",
		Impact:      "Without structure, assistive navigation cannot jump between parts of the document",
	}, true
}

// densitySignal flags walls of text: a high character count per paragraph.
// A textless document produces no issue (the paragraph count guard keeps
// this signal total over all strings).
func densitySignal(rawText string) (document.Issue, bool) {
	paragraphs := countParagraphs(rawText)
	if paragraphs == 0 {
		return document.Issue{}, false
	}
	ratio := float64(len(rawText)) / float64(paragraphs)
	if ratio <= densityThreshold {
		return document.Issue{}, false
	}
	return document.Issue{
		Type:        document.IssueTextDensity,
		Severity:    document.SeverityMedium,
		Description: fmt.Sprintf("Paragraphs average %.0f characters", ratio),
		Impact:      "Dense blocks of text are fatiguing for low-vision readers and hard to re-find a place in",
	}, true
}

// countParagraphs partitions rawText on blank-line boundaries and counts the
// blocks that are non-empty after trimming.
func countParagraphs(rawText string) int {
	rawText = strings.ReplaceAll(rawText, "\r\n", "\n")
	count := 0
	for _, block := range strings.Split(rawText, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// riskLevel derives the risk tier from the clamped score.
func riskLevel(score int) document.RiskLevel {
	switch {
	case score >= 85:
		return document.RiskLow
	case score >= 70:
		return document.RiskMedium
	default:
		return document.RiskHigh
	}
}

// recommendation picks exactly one recommendation string by priority:
// complexity beats structure beats density. Multiple recommendations are
// never combined.
func recommendation(issues []document.Issue) string {
	present := make(map[document.IssueType]bool, len(issues))
	for _, issue := range issues {
		present[issue.Type] = true
	}
	switch {
	case present[document.IssueSentenceComplexity]:
		return "Break long sentences into shorter ones to ease read-aloud comprehension"
	case present[document.IssueDocumentStructure]:
		return "Add headings so readers can navigate between sections"
	case present[document.IssueTextDensity]:
		return "Split dense paragraphs into smaller blocks"
	default:
		return "Document is well-structured for assisted reading"
	}
}
