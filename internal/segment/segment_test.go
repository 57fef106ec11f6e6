package segment

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lectorapp/lector/internal/document"
)

func TestSegment_Basic(t *testing.T) {
	got := Segment("This is a short sentence. Another one!")
	if len(got) != 2 {
		t.Fatalf("expected 2 sentences, got %d: %#v", len(got), got)
	}
	if got[0].Text != "This is a short sentence." {
		t.Fatalf("unexpected first sentence: %q", got[0].Text)
	}
	if got[1].Text != "Another one!" {
		t.Fatalf("unexpected second sentence: %q", got[1].Text)
	}
	if got[0].Index != 0 || got[1].Index != 1 {
		t.Fatalf("indices not contiguous: %#v", got)
	}
}

func TestSegment_PunctuationRun(t *testing.T) {
	got := Segment("Wait... Really?! Yes.")
	want := []string{"Wait...", "Really?!", "Yes."}
	texts := make([]string, len(got))
	for i, s := range got {
		texts[i] = s.Text
	}
	if !reflect.DeepEqual(texts, want) {
		t.Fatalf("expected %v, got %v", want, texts)
	}
}

func TestSegment_NoTerminalPunctuation(t *testing.T) {
	got := Segment("a sentence without any terminator")
	if len(got) != 1 {
		t.Fatalf("expected single sentence, got %#v", got)
	}
	if got[0].Context != document.ContextPlain {
		t.Fatalf("expected plain context, got %s", got[0].Context)
	}
}

func TestSegment_StructuralBoundaries(t *testing.T) {
	text := "## Chapter One\n\nFirst paragraph sentence. Second one.\n\nNew paragraph"
	got := Segment(text)
	if len(got) != 4 {
		t.Fatalf("expected 4 sentences, got %d: %#v", len(got), got)
	}
	if got[0].Context != document.ContextHeading || got[0].Text != "Chapter One" {
		t.Fatalf("unexpected heading sentence: %#v", got[0])
	}
	for _, s := range got[1:] {
		if s.Context != document.ContextParagraph {
			t.Fatalf("expected paragraph context: %#v", s)
		}
	}
}

func TestSegment_HeadingIsHardBreak(t *testing.T) {
	// No terminal punctuation before the heading: the heading must still
	// start a new sentence rather than merging with the paragraph.
	got := Segment("trailing words without a period\n# Heading\nmore text.")
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %#v", len(got), got)
	}
}

func TestSegment_EmphasisNeutralized(t *testing.T) {
	got := Segment("This has **bold** and _italic_ words.")
	if len(got) != 1 {
		t.Fatalf("expected 1 sentence, got %#v", got)
	}
	if got[0].Text != "This has bold and italic words." {
		t.Fatalf("emphasis not neutralized: %q", got[0].Text)
	}
}

func TestSegment_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\t\n", "***"} {
		if got := Segment(input); len(got) != 0 {
			t.Fatalf("expected no sentences for %q, got %#v", input, got)
		}
	}
}

func TestSegment_TotalCoverage(t *testing.T) {
	inputs := []string{
		"One. Two! Three?",
		"# Title\n\nBody text with no end\n\nAnother paragraph. Done.",
		"Ellipsis... then more?! And tail without period",
		"single",
	}
	for _, input := range inputs {
		var joined []string
		for _, u := range Units(input) {
			joined = append(joined, u.Text)
		}
		wantStripped := strings.Join(strings.Fields(strings.Join(joined, " ")), "")

		var parts []string
		for _, s := range Segment(input) {
			if s.Text == "" {
				t.Fatalf("empty sentence for input %q", input)
			}
			parts = append(parts, s.Text)
		}
		gotStripped := strings.Join(strings.Fields(strings.Join(parts, " ")), "")
		if gotStripped != wantStripped {
			t.Fatalf("coverage broken for %q:\nwant %q\ngot  %q", input, wantStripped, gotStripped)
		}
	}
}

func TestSegment_Idempotent(t *testing.T) {
	input := "# Head\n\nAlpha beta. Gamma delta! Epsilon?\n\nNo terminator here"
	first := Segment(input)
	second := Segment(input)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("segmentation not deterministic:\n%#v\n%#v", first, second)
	}
}

func TestSegment_IndexContiguity(t *testing.T) {
	got := Segment("A. B. C. D. E.\n\n# F\n\nG?")
	for i, s := range got {
		if s.Index != i {
			t.Fatalf("index %d at position %d: %#v", s.Index, i, got)
		}
	}
}
