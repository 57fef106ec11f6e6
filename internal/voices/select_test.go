package voices

import "testing"

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
		want       string
		ok         bool
	}{
		{
			name: "quality keyword wins over english local",
			candidates: []Candidate{
				{Name: "Karen", Lang: "en-AU", Local: true},
				{Name: "Samantha (Enhanced)", Lang: "en-US", Local: false},
			},
			want: "Samantha (Enhanced)",
			ok:   true,
		},
		{
			name: "neural keyword on non-english voice still wins",
			candidates: []Candidate{
				{Name: "Daniel", Lang: "en-GB", Local: true},
				{Name: "Anna Neural", Lang: "de-DE", Local: false},
			},
			want: "Anna Neural",
			ok:   true,
		},
		{
			name: "local english beats remote english",
			candidates: []Candidate{
				{Name: "Cloud", Lang: "en-US", Local: false},
				{Name: "Alex", Lang: "en-US", Local: true},
			},
			want: "Alex",
			ok:   true,
		},
		{
			name: "any english beats non-english",
			candidates: []Candidate{
				{Name: "Yuna", Lang: "ko-KR", Local: true},
				{Name: "Moira", Lang: "en-IE", Local: false},
			},
			want: "Moira",
			ok:   true,
		},
		{
			name: "first candidate as last resort",
			candidates: []Candidate{
				{Name: "Amelie", Lang: "fr-CA", Local: true},
				{Name: "Yuna", Lang: "ko-KR", Local: true},
			},
			want: "Amelie",
			ok:   true,
		},
		{
			name:       "empty list",
			candidates: nil,
			want:       "",
			ok:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.candidates)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got.Name != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got.Name)
			}
		})
	}
}

func TestSelect_Deterministic(t *testing.T) {
	candidates := []Candidate{
		{Name: "Karen", Lang: "en-AU", Local: true},
		{Name: "Alex", Lang: "en-US", Local: true},
	}
	first, _ := Select(candidates)
	for i := 0; i < 10; i++ {
		got, _ := Select(candidates)
		if got != first {
			t.Fatalf("selection changed between calls: %#v vs %#v", first, got)
		}
	}
}
