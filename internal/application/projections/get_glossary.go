package projections

import (
	"context"
	"strings"

	"matchhub/internal/domain/glossary"
)

// GetGlossaryQuery carries input for the glossary projection.
type GetGlossaryQuery struct {
	Search string
}

// GetGlossaryDeps holds dependencies for the glossary projection.
type GetGlossaryDeps struct {
	Glossary GlossarySource
}

// GlossaryResult carries the matching terms.
type GlossaryResult struct {
	Search  string           `json:"search"`
	Entries []glossary.Entry `json:"entries"`
	Total   int              `json:"total"`
	Missing bool             `json:"missing"`
	Warning string           `json:"warning,omitempty"`
}

// QueryGetGlossary lists the terms whose name contains the search text.
// PRE: deps are valid and non-nil
// POST: a missing glossary file yields Missing and a warning, not an error
func QueryGetGlossary(ctx context.Context, query GetGlossaryQuery, deps GetGlossaryDeps) (GlossaryResult, error) {
	q := strings.TrimSpace(query.Search)
	result := GlossaryResult{Search: q, Entries: []glossary.Entry{}}

	g, exists, err := deps.Glossary.Glossary(ctx)
	if err != nil {
		return result, err
	}
	if !exists {
		result.Missing = true
		result.Warning = "Glossar-Datei nicht gefunden (data/wiki_terms.json)."
		return result, nil
	}

	result.Total = len(g)
	if entries := g.Search(q); entries != nil {
		result.Entries = entries
	}
	return result, nil
}
