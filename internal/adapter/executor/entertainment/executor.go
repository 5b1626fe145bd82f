// Package entertainment implements the entertainment executor: showtime
// lookup and seat holds against a booking capability.
package entertainment

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

const (
	defaultTickets  = 2
	defaultLocation = "downtown"
)

var ticketsRe = regexp.MustCompile(`(\d+)\s*ticket`)

// Query describes what the requester wants to book.
type Query struct {
	Genre         string
	PreferredTime string
	Location      string
	Tickets       int
}

// Showtime is one bookable option returned by the booking capability.
type Showtime struct {
	Title     string   `json:"movie_title"`
	Theater   string   `json:"theater"`
	Showtime  string   `json:"showtime"`
	Date      string   `json:"date"`
	Seats     []string `json:"available_seats"`
	PricePer  string   `json:"price_per_ticket"`
	Total     string   `json:"total_price"`
	Rating    string   `json:"rating"`
	Duration  string   `json:"duration"`
	BookingID string   `json:"booking_reference,omitempty"`
}

// BookingResult is what the booking capability returns for a query.
type BookingResult struct {
	Options  []Showtime
	Provider string
	Real     bool
}

// BookingService is the external ticketing capability.
type BookingService interface {
	FindShowtimes(ctx context.Context, q Query) (BookingResult, error)
}

// Executor turns an interpretation into a showtime search.
type Executor struct {
	booking BookingService
}

// New creates an entertainment executor with the given booking capability.
func New(booking BookingService) *Executor {
	return &Executor{booking: booking}
}

// Category returns the category this executor handles.
func (e *Executor) Category() task.Category { return task.CategoryEntertainment }

// Execute extracts a booking query from the interpretation and searches for
// showtimes. Capability failures become a failed outcome.
func (e *Executor) Execute(ctx context.Context, req executor.Request) executor.Outcome {
	q := parseQuery(req.Interpretation)

	result, err := e.booking.FindShowtimes(ctx, q)
	if err != nil {
		return executor.Failure("showtime search: " + err.Error())
	}

	recommendation := ""
	if len(result.Options) > 0 {
		best := result.Options[0]
		recommendation = fmt.Sprintf("%s at %s, %s", best.Title, best.Theater, best.Showtime)
	}

	return executor.SuccessFrom(map[string]any{
		"action":          "showtimes_found",
		"search_criteria": fmt.Sprintf("%s, %s, %d tickets", q.Genre, q.PreferredTime, q.Tickets),
		"options":         result.Options,
		"recommendation":  recommendation,
		"tickets":         q.Tickets,
		"provider":        result.Provider,
		"real":            result.Real,
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// parseQuery runs the two-phase extraction: structured JSON first, then
// keyword/regex scanning over the raw text, then hard defaults.
func parseQuery(interpretation string) Query {
	var q Query

	if fields, ok := extract.JSONBlock(interpretation); ok {
		q.Genre = extract.String(fields, "movie_type", "movie", "genre")
		q.PreferredTime = extract.String(fields, "preferred_time", "time", "when")
		q.Location = extract.String(fields, "location", "theater", "city")
		if n, ok := extract.Number(fields, "tickets", "number_of_tickets", "quantity"); ok {
			q.Tickets = int(n)
		}
	}

	lower := strings.ToLower(interpretation)
	if q.Genre == "" {
		switch {
		case strings.Contains(lower, "marvel"):
			q.Genre = "marvel"
		case strings.Contains(lower, "comedy"):
			q.Genre = "comedy"
		case strings.Contains(lower, "horror"):
			q.Genre = "horror"
		default:
			q.Genre = "any"
		}
	}
	if q.PreferredTime == "" {
		switch {
		case strings.Contains(lower, "evening"):
			q.PreferredTime = "evening"
		case strings.Contains(lower, "afternoon"):
			q.PreferredTime = "afternoon"
		case strings.Contains(lower, "morning"):
			q.PreferredTime = "morning"
		default:
			q.PreferredTime = "evening"
		}
	}
	if q.Tickets == 0 {
		if m := ticketsRe.FindStringSubmatch(lower); m != nil {
			fmt.Sscanf(m[1], "%d", &q.Tickets)
		}
	}

	if q.Tickets == 0 {
		q.Tickets = defaultTickets
	}
	if q.Location == "" {
		q.Location = defaultLocation
	}

	return q
}
