// Package invoice holds the invoice model and the derivation rules applied
// on every create and full update.
package invoice

import "time"

// PaymentStatus is the derived settlement state of an invoice.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "Paid"
	StatusPending PaymentStatus = "Pending"
	StatusNotPaid PaymentStatus = "Not paid"
)

// LineItem is one billable entry. Amount is the unit price in minor currency
// units (cents), so line totals stay exact under integer arithmetic.
type LineItem struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Qty    int64  `json:"qty"`
}

// Invoice is the persisted record. TotalAmount, PaymentStatus and NextDueDate
// are derived server-side; clients never submit them.
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceID     string        `json:"invoiceId"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	BillAddress   string        `json:"billAddress"`
	Date          time.Time     `json:"date"`
	LineItems     []LineItem    `json:"selectedCourses"`
	AmountPaid    int64         `json:"amountPaid"`
	CreatedBy     string        `json:"createdBy"`
	NextDueDate   time.Time     `json:"nextDueDate"`
	TotalAmount   int64         `json:"totalAmount"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Total sums amount x qty over all line items. An empty list totals zero.
func Total(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Amount * item.Qty
	}
	return total
}

// StatusFor derives the payment status from the computed total and the amount
// paid. Amounts are integer minor units, so the equality check is exact.
func StatusFor(total, amountPaid int64) PaymentStatus {
	switch {
	case total == amountPaid:
		return StatusPaid
	case total > amountPaid:
		return StatusPending
	default:
		return StatusNotPaid
	}
}

// NextDueDate returns one calendar month after the reference time. The caller
// passes the current processing time, not the invoice's own date field.
func NextDueDate(ref time.Time) time.Time {
	return ref.AddDate(0, 1, 0)
}
