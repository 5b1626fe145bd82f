package shopping

import "context"

// SimulatedCatalog is a deterministic stand-in for a real product search
// integration. It returns a fixed result set regardless of the query.
type SimulatedCatalog struct{}

// NewSimulatedCatalog creates a simulated catalog capability.
func NewSimulatedCatalog() *SimulatedCatalog {
	return &SimulatedCatalog{}
}

// Search returns a fixed set of comparison results.
func (s *SimulatedCatalog) Search(_ context.Context, _ Query) (SearchResult, error) {
	return SearchResult{
		Products: []Product{
			{
				Name:    "Logitech MX Master 3S Wireless Mouse",
				Price:   "$89.99",
				Rating:  "4.6/5",
				URL:     "https://example.com/logitech-mx-master-3s",
				InStock: true,
				Reviews: 2847,
				Specs:   []string{"Wireless", "Bluetooth", "USB-C charging"},
			},
			{
				Name:    "Razer DeathAdder V3 Gaming Mouse",
				Price:   "$69.99",
				Rating:  "4.4/5",
				URL:     "https://example.com/razer-deathadder-v3",
				InStock: true,
				Reviews: 1523,
				Specs:   []string{"Gaming", "RGB", "Ergonomic"},
			},
		},
		TotalResults: 47,
		Provider:     "simulation",
		Real:         false,
	}, nil
}
