package glossary

import (
	"sort"
	"strings"
)

// Term explains one tactical concept. Details is markdown.
type Term struct {
	Short   string   `json:"short"`
	Details string   `json:"details"`
	Watch   []string `json:"watch"`
}

// Glossary maps term names to their explanation.
type Glossary map[string]Term

// Entry is a named term for listing.
type Entry struct {
	Name string `json:"name"`
	Term
}

// Search returns the terms whose name contains q (case-insensitive),
// sorted by name. An empty query matches everything.
func (g Glossary) Search(q string) []Entry {
	needle := strings.ToLower(strings.TrimSpace(q))
	entries := []Entry{}
	for name, term := range g {
		if needle == "" || strings.Contains(strings.ToLower(name), needle) {
			entries = append(entries, Entry{Name: name, Term: term})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}
