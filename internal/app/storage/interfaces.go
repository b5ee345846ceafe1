package storage

import (
	"context"
	"errors"

	"github.com/tutorbill/invoice-service/internal/app/domain/invoice"
	"github.com/tutorbill/invoice-service/internal/app/domain/user"
)

// ErrNotFound is returned by every store when the requested record is absent.
// Callers distinguish it from operational failures with errors.Is.
var ErrNotFound = errors.New("record not found")

// UserStore persists credential records.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
}

// InvoiceStore persists invoice records.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error)
	UpdateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error)
	GetInvoice(ctx context.Context, id string) (invoice.Invoice, error)
	ListInvoices(ctx context.Context) ([]invoice.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) error
}
