// Package invoices applies the invoice derivation rules and orchestrates
// persistence for create, read, update and delete operations.
package invoices

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/tutorbill/invoice-service/internal/errors"

	"github.com/tutorbill/invoice-service/internal/app/domain/invoice"
	"github.com/tutorbill/invoice-service/internal/app/storage"
	"github.com/tutorbill/invoice-service/pkg/logger"
)

// createdBy is a fixed label on every record; it is not derived from the
// authenticated identity.
const createdBy = "Stephy"

// Submission is a raw invoice payload before derivation. Amounts are integer
// minor units. An update fully replaces the stored record: fields omitted
// from the submission overwrite their stored values with zero values.
type Submission struct {
	InvoiceID  string
	Name       string
	Email      string
	Address    string
	LineItems  []invoice.LineItem
	AmountPaid int64
}

// Service computes derived invoice fields and talks to the invoice store.
type Service struct {
	invoices storage.InvoiceStore
	log      *logger.Logger
	now      func() time.Time
}

// New creates the invoice service.
func New(invoices storage.InvoiceStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("invoices")
	}
	return &Service{invoices: invoices, log: log, now: time.Now}
}

// Create derives total, status and due date from the submission and persists
// the assembled record.
func (s *Service) Create(ctx context.Context, sub Submission) (invoice.Invoice, error) {
	inv, err := s.assemble(sub)
	if err != nil {
		return invoice.Invoice{}, err
	}

	created, err := s.invoices.CreateInvoice(ctx, inv)
	if err != nil {
		s.log.WithError(err).Warn("invoice insert failed")
		return invoice.Invoice{}, apperrors.Storage("invoice insert failed", err)
	}
	return created, nil
}

// Update re-derives every computed field and fully replaces the stored
// record's mutable fields.
func (s *Service) Update(ctx context.Context, id string, sub Submission) (invoice.Invoice, error) {
	if _, err := s.invoices.GetInvoice(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return invoice.Invoice{}, apperrors.NotFound("invoice not found")
		}
		return invoice.Invoice{}, apperrors.Storage("invoice lookup failed", err)
	}

	inv, err := s.assemble(sub)
	if err != nil {
		return invoice.Invoice{}, err
	}
	inv.ID = id

	updated, err := s.invoices.UpdateInvoice(ctx, inv)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return invoice.Invoice{}, apperrors.NotFound("invoice not found")
		}
		s.log.WithError(err).WithField("invoice", id).Warn("invoice update failed")
		return invoice.Invoice{}, apperrors.Storage("invoice update failed", err)
	}
	return updated, nil
}

// Get returns one invoice by its store-assigned id.
func (s *Service) Get(ctx context.Context, id string) (invoice.Invoice, error) {
	inv, err := s.invoices.GetInvoice(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return invoice.Invoice{}, apperrors.NotFound("invoice not found")
	}
	if err != nil {
		return invoice.Invoice{}, apperrors.Storage("invoice lookup failed", err)
	}
	return inv, nil
}

// List returns all invoices.
func (s *Service) List(ctx context.Context) ([]invoice.Invoice, error) {
	list, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		return nil, apperrors.Storage("invoice listing failed", err)
	}
	return list, nil
}

// Delete removes an invoice by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.invoices.DeleteInvoice(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NotFound("invoice not found")
	}
	if err != nil {
		return apperrors.Storage("invoice delete failed", err)
	}
	return nil
}

// assemble merges the submission with the computed fields. The issue date and
// the due-date reference are both the current processing time, not any
// client-submitted date.
func (s *Service) assemble(sub Submission) (invoice.Invoice, error) {
	if sub.LineItems == nil {
		return invoice.Invoice{}, apperrors.Validation("selectedCourses is required")
	}

	now := s.now().UTC()
	total := invoice.Total(sub.LineItems)

	return invoice.Invoice{
		InvoiceID:     sub.InvoiceID,
		Name:          sub.Name,
		Email:         sub.Email,
		BillAddress:   sub.Address,
		Date:          now,
		LineItems:     sub.LineItems,
		AmountPaid:    sub.AmountPaid,
		CreatedBy:     createdBy,
		NextDueDate:   invoice.NextDueDate(now),
		TotalAmount:   total,
		PaymentStatus: invoice.StatusFor(total, sub.AmountPaid),
	}, nil
}
