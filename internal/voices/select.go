// Package voices ranks speech-engine voice candidates. Selection is pure
// over whatever candidate list is passed at call time; the caller decides
// how fresh that list is.
package voices

import "strings"

// Candidate is a synthesis voice offered by the speech engine. Candidates
// are supplied by the engine and never mutated.
type Candidate struct {
	Name  string `json:"name"`
	Lang  string `json:"lang"`
	Local bool   `json:"local"`
}

// qualityKeywords mark premium/natural voice variants that outrank
// everything else regardless of language.
var qualityKeywords = []string{"Natural", "Enhanced", "Premium", "Neural"}

// Select deterministically picks the best candidate, first match wins:
// a quality-keyword name, then a local English voice, then any English
// voice, then the first candidate. Returns false only for an empty list.
func Select(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	for _, c := range candidates {
		for _, kw := range qualityKeywords {
			if strings.Contains(c.Name, kw) {
				return c, true
			}
		}
	}

	for _, c := range candidates {
		if strings.HasPrefix(c.Lang, "en") && c.Local {
			return c, true
		}
	}

	for _, c := range candidates {
		if strings.HasPrefix(c.Lang, "en") {
			return c, true
		}
	}

	return candidates[0], true
}
