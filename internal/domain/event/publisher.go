package event

import "context"

// Publisher delivers domain events to external collaborators. Delivery is
// at-least-once: a failed publish is reported to the caller so retries can
// be layered outside the domain.
type Publisher interface {
	Publish(ctx context.Context, e DomainEvent) error
}
