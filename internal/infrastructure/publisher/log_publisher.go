package publisher

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jumapay/billing-api/internal/domain/event"
)

// LogPublisher writes domain events to the process log. It stands in for a
// queue or bus adapter; the Publisher contract is the same either way.
type LogPublisher struct{}

// NewLogPublisher creates a log-backed event publisher
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

var _ event.Publisher = (*LogPublisher)(nil)

func (p *LogPublisher) Publish(_ context.Context, e event.DomainEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	log.Printf("event %s %s", e.EventType(), payload)
	return nil
}
