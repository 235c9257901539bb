package glossary_test

import (
	"testing"

	"matchhub/internal/domain/glossary"
)

func TestGlossary_Search(t *testing.T) {
	g := glossary.Glossary{
		"Forecheck": {Short: "Druck im Angriffsdrittel"},
		"Box+1":     {Short: "Unterzahl-Formation"},
		"Dreieck":   {Short: "Drei Spieler stützen sich", Watch: []string{"Center tief?"}},
	}
	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"Box+1", "Dreieck", "Forecheck"}},
		{query: "DREI", want: []string{"Dreieck"}},
		{query: "  check ", want: []string{"Forecheck"}},
		{query: "slot", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := g.Search(tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) = %d entries, want %d", tt.query, len(got), len(tt.want))
			}
			for i, e := range got {
				if e.Name != tt.want[i] {
					t.Errorf("Search(%q)[%d] = %q, want %q", tt.query, i, e.Name, tt.want[i])
				}
			}
		})
	}
}
