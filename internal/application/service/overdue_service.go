package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jumapay/billing-api/internal/domain/entity"
	"github.com/jumapay/billing-api/internal/domain/enum"
	"github.com/jumapay/billing-api/internal/domain/event"
	"github.com/jumapay/billing-api/internal/domain/repository"
)

// OverdueService runs the overdue sweep: every Sent invoice past its due
// date with an outstanding balance transitions to Overdue. Each invoice is
// saved independently under its own version check, so the sweep needs no
// global lock and re-running it is a no-op for rows already swept.
type OverdueService struct {
	invoiceRepo repository.InvoiceRepository
	publisher   event.Publisher
}

// NewOverdueService creates a new overdue sweep service
func NewOverdueService(invoiceRepo repository.InvoiceRepository, publisher event.Publisher) *OverdueService {
	return &OverdueService{
		invoiceRepo: invoiceRepo,
		publisher:   publisher,
	}
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Candidates   int `json:"candidates"`
	Transitioned int `json:"transitioned"`
	Conflicts    int `json:"conflicts"`
}

// Run sweeps all Sent invoices as of the given time. A version conflict on
// one invoice means a concurrent writer got there first; it is counted and
// skipped, never retried here.
func (s *OverdueService) Run(ctx context.Context, asOf time.Time) (*SweepResult, error) {
	candidates, err := s.invoiceRepo.FindByStatus(ctx, enum.InvoiceStatusSent)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Candidates: len(candidates)}
	for _, invoice := range candidates {
		loadedVersion := invoice.Version
		if !invoice.MarkOverdue(asOf) {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, invoice, loadedVersion); err != nil {
			if errors.Is(err, entity.ErrVersionConflict) {
				result.Conflicts++
				continue
			}
			return result, err
		}
		result.Transitioned++

		for _, e := range invoice.Events() {
			if pubErr := s.publisher.Publish(ctx, e); pubErr != nil {
				log.Printf("failed to publish %s: %v", e.EventType(), pubErr)
			}
		}
		invoice.ClearEvents()
	}
	return result, nil
}
