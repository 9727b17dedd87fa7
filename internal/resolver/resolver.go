// Package resolver turns a free-text problem description into a suggested
// solution. The resolver is opaque to the conversation layer: it gets a query
// and returns remediation text plus the category path it matched, or an error.
package resolver

import (
	"context"
	"errors"
)

// ErrNoMatch is returned when the resolver cannot suggest anything for the
// query; the caller falls back to ticket creation.
var ErrNoMatch = errors.New("resolver: no matching solution")

// Solution is a resolved suggestion for a free-text description.
type Solution struct {
	Issue       string
	Text        string
	Category    string
	Subcategory string
	Type        string
	Item        string
}

// Resolver maps a free-text description to a solution.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*Solution, error)
}
