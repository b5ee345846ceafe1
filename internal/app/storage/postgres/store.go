// Package postgres implements the storage interfaces on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tutorbill/invoice-service/internal/app/domain/invoice"
	"github.com/tutorbill/invoice-service/internal/app/domain/user"
	"github.com/tutorbill/invoice-service/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.UserStore = (*Store)(nil)
var _ storage.InvoiceStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type userRow struct {
	ID        string    `db:"id"`
	Username  string    `db:"username"`
	Password  string    `db:"password_hash"`
	CreatedAt time.Time `db:"created_at"`
}

type invoiceRow struct {
	ID            string    `db:"id"`
	InvoiceID     string    `db:"invoice_id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	BillAddress   string    `db:"bill_address"`
	Date          time.Time `db:"issue_date"`
	LineItems     []byte    `db:"line_items"`
	AmountPaid    int64     `db:"amount_paid"`
	CreatedBy     string    `db:"created_by"`
	NextDueDate   time.Time `db:"next_due_date"`
	TotalAmount   int64     `db:"total_amount"`
	PaymentStatus string    `db:"payment_status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// --- UserStore --------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, u.ID, u.Username, u.Password, u.CreatedAt)
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, storage.ErrNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return user.User(row), nil
}

// --- InvoiceStore -----------------------------------------------------------

func (s *Store) CreateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	itemsJSON, err := json.Marshal(inv.LineItems)
	if err != nil {
		return invoice.Invoice{}, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO invoices (id, invoice_id, name, email, bill_address, issue_date,
			line_items, amount_paid, created_by, next_due_date, total_amount,
			payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, inv.ID, inv.InvoiceID, inv.Name, inv.Email, inv.BillAddress, inv.Date,
		itemsJSON, inv.AmountPaid, inv.CreatedBy, inv.NextDueDate, inv.TotalAmount,
		string(inv.PaymentStatus), inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return invoice.Invoice{}, err
	}
	return inv, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	inv.UpdatedAt = time.Now().UTC()

	itemsJSON, err := json.Marshal(inv.LineItems)
	if err != nil {
		return invoice.Invoice{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE invoices
		SET invoice_id = $2, name = $3, email = $4, bill_address = $5,
			issue_date = $6, line_items = $7, amount_paid = $8, created_by = $9,
			next_due_date = $10, total_amount = $11, payment_status = $12,
			updated_at = $13
		WHERE id = $1
	`, inv.ID, inv.InvoiceID, inv.Name, inv.Email, inv.BillAddress, inv.Date,
		itemsJSON, inv.AmountPaid, inv.CreatedBy, inv.NextDueDate, inv.TotalAmount,
		string(inv.PaymentStatus), inv.UpdatedAt)
	if err != nil {
		return invoice.Invoice{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return invoice.Invoice{}, storage.ErrNotFound
	}
	return inv, nil
}

func (s *Store) GetInvoice(ctx context.Context, id string) (invoice.Invoice, error) {
	var row invoiceRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, invoice_id, name, email, bill_address, issue_date, line_items,
			amount_paid, created_by, next_due_date, total_amount, payment_status,
			created_at, updated_at
		FROM invoices
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return invoice.Invoice{}, storage.ErrNotFound
	}
	if err != nil {
		return invoice.Invoice{}, err
	}
	return rowToInvoice(row)
}

func (s *Store) ListInvoices(ctx context.Context) ([]invoice.Invoice, error) {
	var rows []invoiceRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, invoice_id, name, email, bill_address, issue_date, line_items,
			amount_paid, created_by, next_due_date, total_amount, payment_status,
			created_at, updated_at
		FROM invoices
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}

	result := make([]invoice.Invoice, 0, len(rows))
	for _, row := range rows {
		inv, err := rowToInvoice(row)
		if err != nil {
			return nil, err
		}
		result = append(result, inv)
	}
	return result, nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func rowToInvoice(row invoiceRow) (invoice.Invoice, error) {
	inv := invoice.Invoice{
		ID:            row.ID,
		InvoiceID:     row.InvoiceID,
		Name:          row.Name,
		Email:         row.Email,
		BillAddress:   row.BillAddress,
		Date:          row.Date,
		AmountPaid:    row.AmountPaid,
		CreatedBy:     row.CreatedBy,
		NextDueDate:   row.NextDueDate,
		TotalAmount:   row.TotalAmount,
		PaymentStatus: invoice.PaymentStatus(row.PaymentStatus),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if len(row.LineItems) > 0 {
		if err := json.Unmarshal(row.LineItems, &inv.LineItems); err != nil {
			return invoice.Invoice{}, err
		}
	}
	return inv, nil
}
