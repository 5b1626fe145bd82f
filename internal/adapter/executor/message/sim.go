package message

import (
	"context"
	"fmt"
	"time"
)

// SimulatedSender is a deterministic stand-in for a real mail integration.
// It accepts every message and returns a synthetic receipt.
type SimulatedSender struct {
	now func() time.Time
}

// NewSimulatedSender creates a simulated sending capability.
func NewSimulatedSender() *SimulatedSender {
	return &SimulatedSender{now: time.Now}
}

// Send records nothing and reports the message as prepared.
func (s *SimulatedSender) Send(_ context.Context, _ OutboundMessage) (Receipt, error) {
	return Receipt{
		MessageID: fmt.Sprintf("sim-%d", s.now().UnixMilli()),
		Provider:  "simulation",
		Real:      false,
	}, nil
}
