package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/tutorbill/invoice-service/internal/app/domain/invoice"
	"github.com/tutorbill/invoice-service/internal/app/domain/user"
	"github.com/tutorbill/invoice-service/internal/app/storage"
)

func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(sqlx.NewDb(db, "sqlmock")), mock
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	store, mock := mockStore(t)
	mock.ExpectQuery("SELECT id, username").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetUserByUsername(context.Background(), "ghost")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateInvoiceNotFound(t *testing.T) {
	store, mock := mockStore(t)
	mock.ExpectExec("UPDATE invoices").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdateInvoice(context.Background(), invoice.Invoice{ID: "missing"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteInvoiceNotFound(t *testing.T) {
	store, mock := mockStore(t)
	mock.ExpectExec("DELETE FROM invoices").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteInvoice(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetInvoiceUnmarshalsLineItems(t *testing.T) {
	store, mock := mockStore(t)
	now := time.Now().UTC()
	columns := []string{
		"id", "invoice_id", "name", "email", "bill_address", "issue_date",
		"line_items", "amount_paid", "created_by", "next_due_date",
		"total_amount", "payment_status", "created_at", "updated_at",
	}
	mock.ExpectQuery("SELECT id, invoice_id").
		WithArgs("inv-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"inv-1", "INV-001", "Ada", "ada@example.com", "12 Analytical Row", now,
			[]byte(`[{"name":"Algebra","amount":10000,"qty":2}]`), 20000, "Stephy",
			now.AddDate(0, 1, 0), 20000, "Paid", now, now,
		))

	inv, err := store.GetInvoice(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if len(inv.LineItems) != 1 || inv.LineItems[0].Amount != 10000 || inv.LineItems[0].Qty != 2 {
		t.Fatalf("line items not decoded: %+v", inv.LineItems)
	}
	if inv.PaymentStatus != invoice.StatusPaid {
		t.Fatalf("expected Paid status, got %s", inv.PaymentStatus)
	}
}

func TestStoreIntegration(t *testing.T) {
	_ = godotenv.Load() // allow .env for local runs

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping postgres integration test")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := Apply(ctx, db.DB); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	store := New(db)

	u, err := store.CreateUser(ctx, user.User{Username: "it-user", Password: "$2a$10$hash"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.GetUserByUsername(ctx, u.Username); err != nil {
		t.Fatalf("get user: %v", err)
	}

	inv, err := store.CreateInvoice(ctx, invoice.Invoice{
		InvoiceID:     "INV-IT",
		Name:          "Ada",
		Date:          time.Now().UTC(),
		NextDueDate:   time.Now().UTC().AddDate(0, 1, 0),
		LineItems:     []invoice.LineItem{{Name: "Algebra", Amount: 10000, Qty: 2}},
		TotalAmount:   20000,
		AmountPaid:    20000,
		PaymentStatus: invoice.StatusPaid,
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	got, err := store.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if got.TotalAmount != 20000 || got.PaymentStatus != invoice.StatusPaid {
		t.Fatalf("derived fields did not round-trip: %+v", got)
	}

	if err := store.DeleteInvoice(ctx, inv.ID); err != nil {
		t.Fatalf("delete invoice: %v", err)
	}
}
