// Package catalog loads and navigates the hierarchical issue catalog that
// drives structured narrowing: ticket type → category → subcategory → type →
// item → issue. The catalog is a YAML document; a default is embedded and a
// deployment can point CATALOG_PATH at its own file.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// Issue is a leaf entry: one known problem and its remediation text.
type Issue struct {
	Issue    string `yaml:"issue"`
	Solution string `yaml:"solution"`
}

// Item groups the issues of one concrete asset (e.g. "Network Port").
type Item struct {
	Name   string  `yaml:"name"`
	Issues []Issue `yaml:"issues"`
}

// TypeGroup groups items under one equipment or platform type.
type TypeGroup struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Items []Item `yaml:"items"`
}

// Subcategory splits a category into hardware/software style buckets.
type Subcategory struct {
	Name  string      `yaml:"name"`
	Icon  string      `yaml:"icon"`
	Types []TypeGroup `yaml:"types"`
}

// Category is a top-level incident area such as "Network Connection Issues".
type Category struct {
	Name          string        `yaml:"name"`
	Icon          string        `yaml:"icon"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

// Catalog is the full navigable hierarchy, keyed by ticket type.
type Catalog struct {
	Incident []Category `yaml:"incident"`
	Request  []Category `yaml:"request"`
}

// Load reads the catalog from path, or the embedded default when path is
// empty.
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Incident) == 0 {
		return nil, fmt.Errorf("catalog has no incident categories")
	}
	return &c, nil
}

func (c *Catalog) byTicketType(ticketType string) []Category {
	if strings.EqualFold(ticketType, "Request") {
		return c.Request
	}
	return c.Incident
}

// Categories returns the top-level categories for a ticket type.
func (c *Catalog) Categories(ticketType string) []Category {
	return c.byTicketType(ticketType)
}

// Subcategories returns the subcategories under a named category.
func (c *Catalog) Subcategories(ticketType, category string) []Subcategory {
	for _, cat := range c.byTicketType(ticketType) {
		if cat.Name == category {
			return cat.Subcategories
		}
	}
	return nil
}

// Types returns the type groups under a subcategory.
func (c *Catalog) Types(ticketType, category, subcategory string) []TypeGroup {
	for _, sub := range c.Subcategories(ticketType, category) {
		if sub.Name == subcategory {
			return sub.Types
		}
	}
	return nil
}

// Items returns the items under a type group.
func (c *Catalog) Items(ticketType, category, subcategory, typeName string) []Item {
	for _, tg := range c.Types(ticketType, category, subcategory) {
		if tg.Name == typeName {
			return tg.Items
		}
	}
	return nil
}

// Issues returns the issues of a single item.
func (c *Catalog) Issues(ticketType, category, subcategory, typeName, item string) []Issue {
	for _, it := range c.Items(ticketType, category, subcategory, typeName) {
		if it.Name == item {
			return it.Issues
		}
	}
	return nil
}

// Solution returns the issue at index within an item, or false when the path
// or index does not resolve.
func (c *Catalog) Solution(ticketType, category, subcategory, typeName, item string, index int) (Issue, bool) {
	issues := c.Issues(ticketType, category, subcategory, typeName, item)
	if index < 0 || index >= len(issues) {
		return Issue{}, false
	}
	return issues[index], true
}

// SearchResult is one scored match from a free-text catalog search.
type SearchResult struct {
	Issue       Issue
	Category    string
	Subcategory string
	Type        string
	Item        string
	Score       int
}

const maxSearchResults = 5

// Search ranks catalog issues against a free-text query. Issue text matches
// weigh three times solution text matches; the top five hits are returned in
// descending score order.
func (c *Catalog) Search(query, ticketType string) []SearchResult {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	var results []SearchResult
	for _, cat := range c.byTicketType(ticketType) {
		for _, sub := range cat.Subcategories {
			for _, tg := range sub.Types {
				for _, it := range tg.Items {
					for _, issue := range it.Issues {
						issueText := strings.ToLower(issue.Issue)
						solutionText := strings.ToLower(issue.Solution)
						score := 0
						for _, w := range words {
							if strings.Contains(issueText, w) {
								score += 3
							}
							if strings.Contains(solutionText, w) {
								score++
							}
						}
						if score > 0 {
							results = append(results, SearchResult{
								Issue:       issue,
								Category:    cat.Name,
								Subcategory: sub.Name,
								Type:        tg.Name,
								Item:        it.Name,
								Score:       score,
							})
						}
					}
				}
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > maxSearchResults {
		results = results[:maxSearchResults]
	}
	return results
}
