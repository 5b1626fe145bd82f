package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mindhq/mindcore/internal/port/executor"
)

type captureCatalog struct {
	last Query
	err  error
}

func (c *captureCatalog) Search(_ context.Context, q Query) (SearchResult, error) {
	if c.err != nil {
		return SearchResult{}, c.err
	}
	c.last = q
	return SearchResult{
		Products:     []Product{{Name: "Test Mouse", Price: "$10"}},
		TotalResults: 1,
		Provider:     "capture",
		Real:         true,
	}, nil
}

func TestParseQueryStructured(t *testing.T) {
	q := parseQuery(`{"product_name":"laptop","budget":"800","specifications":"16GB RAM"}`)
	if q.Product != "laptop" {
		t.Errorf("product = %q", q.Product)
	}
	if q.Budget != 800 {
		t.Errorf("budget = %d", q.Budget)
	}
	if q.Specs != "16GB RAM" {
		t.Errorf("specs = %q", q.Specs)
	}
}

func TestParseQueryKeywordFallback(t *testing.T) {
	q := parseQuery("The user wants a wireless mouse for under $50.")
	if q.Product != "mouse" {
		t.Errorf("product = %q", q.Product)
	}
	if q.Budget != 50 {
		t.Errorf("budget = %d", q.Budget)
	}
}

func TestParseQueryDefaults(t *testing.T) {
	q := parseQuery("something nice")
	if q.Product != "general product" {
		t.Errorf("product = %q", q.Product)
	}
	if q.Budget != defaultBudget {
		t.Errorf("budget = %d", q.Budget)
	}
}

func TestExecuteBuildsPayload(t *testing.T) {
	cat := &captureCatalog{}
	out := New(cat).Execute(context.Background(), executor.Request{
		Interpretation: `{"product_name":"mouse","budget":60}`,
	})
	if !out.Success {
		t.Fatalf("expected success, got %q", out.ErrorMessage)
	}
	if cat.last.Product != "mouse" || cat.last.Budget != 60 {
		t.Errorf("catalog query = %+v", cat.last)
	}

	var payload map[string]any
	if err := json.Unmarshal(out.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if payload["search_query"] != "mouse under $60" {
		t.Errorf("search_query = %v", payload["search_query"])
	}
	if payload["recommendation"] != "Test Mouse - best overall value" {
		t.Errorf("recommendation = %v", payload["recommendation"])
	}
}

func TestExecuteCapabilityFailureIsCaught(t *testing.T) {
	out := New(&captureCatalog{err: errors.New("catalog timeout")}).
		Execute(context.Background(), executor.Request{Interpretation: "a mouse"})
	if out.Success {
		t.Fatal("expected failed outcome")
	}
}

func TestSimulatedCatalogNeverFails(t *testing.T) {
	out := New(NewSimulatedCatalog()).Execute(context.Background(), executor.Request{
		Interpretation: "plain text, not JSON at all",
	})
	if !out.Success {
		t.Fatalf("expected success, got %q", out.ErrorMessage)
	}

	var payload struct {
		FoundProducts []Product `json:"found_products"`
		Provider      string    `json:"provider"`
	}
	if err := json.Unmarshal(out.Payload, &payload); err != nil {
		t.Fatal(err)
	}
	if len(payload.FoundProducts) != 2 {
		t.Errorf("expected 2 simulated products, got %d", len(payload.FoundProducts))
	}
	if payload.Provider != "simulation" {
		t.Errorf("provider = %q", payload.Provider)
	}
}
