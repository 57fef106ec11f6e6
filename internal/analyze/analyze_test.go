package analyze

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lectorapp/lector/internal/document"
	"github.com/lectorapp/lector/internal/segment"
)

func TestAnalyze_ShortCleanDocument(t *testing.T) {
	raw := "This is a short sentence. Another one!"
	report := Analyze(raw, segment.Segment(raw))
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %#v", report.Issues)
	}
	if report.Score != 100 {
		t.Fatalf("expected score 100, got %d", report.Score)
	}
	if report.Risk != document.RiskLow {
		t.Fatalf("expected Low risk, got %s", report.Risk)
	}
}

func TestAnalyze_ComplexityAndStructure(t *testing.T) {
	// 15 sentences averaging 25 words, no heading markers anywhere.
	sentence := strings.Repeat("word ", 24) + "end."
	raw := strings.TrimSpace(strings.Repeat(sentence+" ", 15))
	sentences := segment.Segment(raw)
	if len(sentences) != 15 {
		t.Fatalf("fixture broken: %d sentences", len(sentences))
	}

	report := Analyze(raw, sentences)

	types := make(map[document.IssueType]document.Severity)
	for _, issue := range report.Issues {
		types[issue.Type] = issue.Severity
	}
	if types[document.IssueSentenceComplexity] != document.SeverityHigh {
		t.Fatalf("expected high complexity issue, got %#v", report.Issues)
	}
	if types[document.IssueDocumentStructure] != document.SeverityMedium {
		t.Fatalf("expected medium structure issue, got %#v", report.Issues)
	}
	// The single wall-of-text paragraph also trips density, so all three
	// signals fire: 100 - 15 - 8 - 8 = 69, High band.
	if types[document.IssueTextDensity] != document.SeverityMedium {
		t.Fatalf("expected medium density issue, got %#v", report.Issues)
	}
	if report.Score != 69 || report.Risk != document.RiskHigh {
		t.Fatalf("unexpected score %d / risk %s", report.Score, report.Risk)
	}
}

func TestAnalyze_ScenarioB(t *testing.T) {
	// 15 sentences, avg 25 words, no headings, but spread across paragraphs
	// so density stays quiet: exactly complexity + structure fire.
	sentence := strings.Repeat("word ", 24) + "end."
	raw := strings.TrimSpace(strings.Repeat(sentence+"\n\n", 15))
	report := Analyze(raw, segment.Segment(raw))

	if len(report.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %#v", report.Issues)
	}
	if report.Score != 77 {
		t.Fatalf("expected score 77, got %d", report.Score)
	}
	if report.Risk != document.RiskMedium {
		t.Fatalf("expected Medium risk, got %s", report.Risk)
	}
	if !strings.Contains(report.Recommendation, "long sentences") {
		t.Fatalf("complexity recommendation should win: %q", report.Recommendation)
	}
}

func TestAnalyze_Density(t *testing.T) {
	// One paragraph well past 500 chars, short sentences, with a heading.
	raw := "# Doc\n\n" + strings.TrimSpace(strings.Repeat("Tiny one. ", 150))
	report := Analyze(raw, segment.Segment(raw))

	if len(report.Issues) != 1 || report.Issues[0].Type != document.IssueTextDensity {
		t.Fatalf("expected only density issue, got %#v", report.Issues)
	}
	if report.Score != 92 {
		t.Fatalf("expected score 92, got %d", report.Score)
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	report := Analyze("", nil)
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues for empty input, got %#v", report.Issues)
	}
	if report.Score != 100 || report.Risk != document.RiskLow {
		t.Fatalf("expected clean report, got %#v", report)
	}
}

func TestAnalyze_ScoreBounds(t *testing.T) {
	sentence := strings.Repeat("word ", 24) + "end."
	raw := strings.TrimSpace(strings.Repeat(sentence+" ", 15))
	report := Analyze(raw, segment.Segment(raw))
	if report.Score < 0 || report.Score > 100 {
		t.Fatalf("score out of bounds: %d", report.Score)
	}
	// Every additional issue lowers the score.
	clean := Analyze("One. Two.", segment.Segment("One. Two."))
	if report.Score >= clean.Score {
		t.Fatalf("issues must not raise score: %d >= %d", report.Score, clean.Score)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	raw := "# Head\n\n" + strings.Repeat("Some sentence here. ", 12)
	sentences := segment.Segment(raw)
	first := Analyze(raw, sentences)
	second := Analyze(raw, sentences)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("analysis not deterministic:\n%#v\n%#v", first, second)
	}
}

func TestAnalyze_OneIssuePerType(t *testing.T) {
	sentence := strings.Repeat("word ", 30) + "end."
	raw := strings.TrimSpace(strings.Repeat(sentence+" ", 20))
	report := Analyze(raw, segment.Segment(raw))
	seen := make(map[document.IssueType]int)
	for _, issue := range report.Issues {
		seen[issue.Type]++
	}
	for typ, n := range seen {
		if n > 1 {
			t.Fatalf("issue type %s fired %d times", typ, n)
		}
	}
}
