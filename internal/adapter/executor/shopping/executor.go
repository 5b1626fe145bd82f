// Package shopping implements the shopping executor: product search against
// a catalog capability.
package shopping

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mindhq/mindcore/internal/adapter/executor/extract"
	"github.com/mindhq/mindcore/internal/domain/task"
	"github.com/mindhq/mindcore/internal/port/executor"
)

const defaultBudget = 100

var budgetRe = regexp.MustCompile(`\$?(\d+)`)

// Product keywords recognized by the coarse text fallback.
var productKeywords = []string{
	"laptop", "mouse", "keyboard", "monitor", "headphones", "phone", "tablet", "camera",
}

// Query is a product search handed to the catalog capability.
type Query struct {
	Product string
	Budget  int
	Specs   string
}

// Product is one catalog search hit.
type Product struct {
	Name    string   `json:"name"`
	Price   string   `json:"price"`
	Rating  string   `json:"rating"`
	URL     string   `json:"url"`
	InStock bool     `json:"in_stock"`
	Reviews int      `json:"reviews"`
	Specs   []string `json:"specs,omitempty"`
}

// SearchResult is what the catalog capability returns for a query.
type SearchResult struct {
	Products     []Product
	TotalResults int
	Provider     string
	Real         bool
}

// Catalog is the external product search capability.
type Catalog interface {
	Search(ctx context.Context, q Query) (SearchResult, error)
}

// Executor turns an interpretation into a catalog search.
type Executor struct {
	catalog Catalog
}

// New creates a shopping executor with the given catalog capability.
func New(catalog Catalog) *Executor {
	return &Executor{catalog: catalog}
}

// Category returns the category this executor handles.
func (e *Executor) Category() task.Category { return task.CategoryShopping }

// Execute extracts a product query from the interpretation and searches the
// catalog. Capability failures become a failed outcome.
func (e *Executor) Execute(ctx context.Context, req executor.Request) executor.Outcome {
	q := parseQuery(req.Interpretation)

	result, err := e.catalog.Search(ctx, q)
	if err != nil {
		return executor.Failure("catalog search: " + err.Error())
	}

	recommendation := ""
	if len(result.Products) > 0 {
		recommendation = result.Products[0].Name + " - best overall value"
	}

	return executor.SuccessFrom(map[string]any{
		"action":         "product_search_completed",
		"search_query":   fmt.Sprintf("%s under $%d", q.Product, q.Budget),
		"found_products": result.Products,
		"recommendation": recommendation,
		"total_results":  result.TotalResults,
		"budget":         q.Budget,
		"provider":       result.Provider,
		"real":           result.Real,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

// parseQuery runs the two-phase extraction: structured JSON first, then
// keyword/regex scanning over the raw text, then hard defaults.
func parseQuery(interpretation string) Query {
	var q Query

	if fields, ok := extract.JSONBlock(interpretation); ok {
		q.Product = extract.String(fields, "product_name", "product", "item")
		q.Specs = extract.String(fields, "specifications", "requirements")
		if n, ok := extract.Number(fields, "budget", "max_price", "price_range"); ok {
			q.Budget = int(n)
		}
	}

	lower := strings.ToLower(interpretation)
	if q.Product == "" {
		for _, kw := range productKeywords {
			if strings.Contains(lower, kw) {
				q.Product = kw
				break
			}
		}
	}
	if q.Budget == 0 {
		if m := budgetRe.FindStringSubmatch(interpretation); m != nil {
			fmt.Sscanf(m[1], "%d", &q.Budget)
		}
	}

	if q.Product == "" {
		q.Product = "general product"
	}
	if q.Budget == 0 {
		q.Budget = defaultBudget
	}
	if q.Specs == "" {
		q.Specs = interpretation
	}

	return q
}
