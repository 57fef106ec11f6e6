// Package document defines the core sentence/document model shared by the
// segmenter, analyzer, and playback controller.
package document

// Context describes the structural unit a sentence came from.
type Context string

const (
	ContextHeading   Context = "heading"
	ContextParagraph Context = "paragraph"
	ContextPlain     Context = "plain"
)

// Sentence is one addressable unit of the read-aloud stream.
// Sentences are immutable once produced for a given document.
type Sentence struct {
	Index   int     `json:"index"`
	Text    string  `json:"text"`
	Context Context `json:"context"`
}

// Document pairs the raw extracted text with its segmented sentence stream
// and accessibility report. A new upload replaces the document wholesale;
// sentences of a prior document are never mutated in place.
type Document struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	RawText   string     `json:"-"`
	Sentences []Sentence `json:"sentences"`
	Report    Report     `json:"report"`
}

// IssueType identifies a barrier signal.
type IssueType string

const (
	IssueSentenceComplexity IssueType = "SentenceComplexity"
	IssueDocumentStructure  IssueType = "DocumentStructure"
	IssueTextDensity        IssueType = "TextDensity"
)

// Severity grades a detected barrier.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Issue is one triggered barrier signal. At most one issue of each type is
// produced per analysis run.
type Issue struct {
	Type        IssueType `json:"type"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	Impact      string    `json:"impact"`
}

// RiskLevel is the derived accessibility risk tier.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Report is the quantitative accessibility-barrier report for a document.
type Report struct {
	Issues         []Issue   `json:"issues"`
	Score          int       `json:"score"`
	Risk           RiskLevel `json:"risk_level"`
	Recommendation string    `json:"recommendation"`
}
