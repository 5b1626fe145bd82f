package entertainment

import (
	"context"
	"fmt"
	"time"
)

// SimulatedBooking is a deterministic stand-in for a real ticketing
// integration. It offers a fixed pair of showtimes for tomorrow, holding as
// many adjacent seats as the query asks for.
type SimulatedBooking struct {
	now func() time.Time
}

// NewSimulatedBooking creates a simulated booking capability.
func NewSimulatedBooking() *SimulatedBooking {
	return &SimulatedBooking{now: time.Now}
}

// FindShowtimes returns two fixed options with seats sized to the query.
func (s *SimulatedBooking) FindShowtimes(_ context.Context, q Query) (BookingResult, error) {
	date := s.now().AddDate(0, 0, 1).Format("2006-01-02")

	return BookingResult{
		Options: []Showtime{
			{
				Title:    "Guardians of the Galaxy Vol. 3",
				Theater:  "AMC Downtown 12",
				Showtime: "7:30 PM",
				Date:     date,
				Seats:    seatRun('H', 7, q.Tickets),
				PricePer: "$12.50",
				Total:    fmt.Sprintf("$%.2f", 12.50*float64(q.Tickets)),
				Rating:   "PG-13",
				Duration: "2h 30m",
			},
			{
				Title:    "Spider-Man: Across the Spider-Verse",
				Theater:  "Regal Cinemas",
				Showtime: "8:00 PM",
				Date:     date,
				Seats:    seatRun('F', 5, q.Tickets),
				PricePer: "$11.00",
				Total:    fmt.Sprintf("$%.2f", 11.00*float64(q.Tickets)),
				Rating:   "PG",
				Duration: "2h 20m",
			},
		},
		Provider: "simulation",
		Real:     false,
	}, nil
}

// seatRun returns n adjacent seats in the given row starting at a seat number.
func seatRun(row rune, start, n int) []string {
	if n < 1 {
		n = 1
	}
	seats := make([]string, 0, n)
	for i := 0; i < n; i++ {
		seats = append(seats, fmt.Sprintf("%c%d", row, start+i))
	}
	return seats
}
