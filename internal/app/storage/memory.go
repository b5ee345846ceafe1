package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tutorbill/invoice-service/internal/app/domain/invoice"
	"github.com/tutorbill/invoice-service/internal/app/domain/user"
)

// Memory is a thread-safe in-memory persistence layer implementing the
// storage interfaces. It backs tests and runs without a configured database.
type Memory struct {
	mu             sync.RWMutex
	users          map[string]user.User // keyed by username
	invoices       map[string]invoice.Invoice
	invoiceInserts []string // preserves creation order for listing
}

var _ UserStore = (*Memory)(nil)
var _ InvoiceStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]user.User),
		invoices: make(map[string]invoice.Invoice),
	}
}

// UserStore implementation ----------------------------------------------------

func (m *Memory) CreateUser(_ context.Context, u user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[u.Username]; exists {
		return user.User{}, fmt.Errorf("user %s already exists", u.Username)
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	m.users[u.Username] = u
	return u, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return user.User{}, ErrNotFound
	}
	return u, nil
}

// InvoiceStore implementation -------------------------------------------------

func (m *Memory) CreateInvoice(_ context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if inv.ID == "" {
		inv.ID = uuid.NewString()
	} else if _, exists := m.invoices[inv.ID]; exists {
		return invoice.Invoice{}, fmt.Errorf("invoice %s already exists", inv.ID)
	}

	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	inv.LineItems = cloneItems(inv.LineItems)

	m.invoices[inv.ID] = inv
	m.invoiceInserts = append(m.invoiceInserts, inv.ID)
	return cloneInvoice(inv), nil
}

func (m *Memory) UpdateInvoice(_ context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	original, ok := m.invoices[inv.ID]
	if !ok {
		return invoice.Invoice{}, ErrNotFound
	}

	inv.CreatedAt = original.CreatedAt
	inv.UpdatedAt = time.Now().UTC()
	inv.LineItems = cloneItems(inv.LineItems)

	m.invoices[inv.ID] = inv
	return cloneInvoice(inv), nil
}

func (m *Memory) GetInvoice(_ context.Context, id string) (invoice.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inv, ok := m.invoices[id]
	if !ok {
		return invoice.Invoice{}, ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (m *Memory) ListInvoices(_ context.Context) ([]invoice.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]invoice.Invoice, 0, len(m.invoices))
	for _, id := range m.invoiceInserts {
		if inv, ok := m.invoices[id]; ok {
			result = append(result, cloneInvoice(inv))
		}
	}
	return result, nil
}

func (m *Memory) DeleteInvoice(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(m.invoices, id)
	return nil
}

// Helpers ---------------------------------------------------------------------

func cloneItems(items []invoice.LineItem) []invoice.LineItem {
	if items == nil {
		return nil
	}
	return append([]invoice.LineItem(nil), items...)
}

func cloneInvoice(inv invoice.Invoice) invoice.Invoice {
	inv.LineItems = cloneItems(inv.LineItems)
	return inv
}
