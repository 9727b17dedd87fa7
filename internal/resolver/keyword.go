package resolver

import (
	"context"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/catalog"
)

// Keyword resolves free text by keyword search over the issue catalog. It is
// the fallback when no model-backed resolver is configured or the model call
// fails.
type Keyword struct {
	catalog *catalog.Catalog
}

// NewKeyword creates a catalog-search resolver.
func NewKeyword(c *catalog.Catalog) *Keyword {
	return &Keyword{catalog: c}
}

// Resolve returns the best-scoring catalog issue for the query.
func (k *Keyword) Resolve(ctx context.Context, query string) (*Solution, error) {
	results := k.catalog.Search(query, "Incident")
	if len(results) == 0 {
		return nil, ErrNoMatch
	}
	top := results[0]
	return &Solution{
		Issue:       top.Issue.Issue,
		Text:        top.Issue.Solution,
		Category:    top.Category,
		Subcategory: top.Subcategory,
		Type:        top.Type,
		Item:        top.Item,
	}, nil
}
