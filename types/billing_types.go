package types

import "time"

// Payment is one row of the append-only payment ledger. Rows are never
// updated or deleted; whether a user is subscribed is derived from them
// on every query.
type Payment struct {
	ID                    int64
	UserID                int64
	Tariff                string
	Currency              string
	Amount                int64
	PaymentID             string
	TelegramPaymentCharge string
	PurchasedAt           time.Time
	ExpiresAt             time.Time
}

// Active reports whether the payment still grants access at asOf.
// A record expiring exactly at asOf is no longer active.
func (p *Payment) Active(asOf time.Time) bool {
	return p != nil && p.ExpiresAt.After(asOf)
}

// PendingInvoice is the transient record of an issued but not yet paid
// invoice, keyed by its payment correlation token. It is never written
// to the ledger; an invoice that is never paid leaves no trace there.
type PendingInvoice struct {
	UserID    int64
	Tariff    string
	Amount    int64
	PaymentID string
	CreatedAt time.Time
}

type BillingStore interface {
	RecordPayment(p Payment, duration time.Duration) (*Payment, error)
	ActiveTariff(userID int64, asOf time.Time) (*Payment, error)
	PaymentsHistory(userID int64) ([]*Payment, error)
}

type InvoiceStore interface {
	PutPendingInvoice(inv *PendingInvoice) error
	GetPendingInvoice(paymentID string) (*PendingInvoice, error)
	DeletePendingInvoice(paymentID string) error
}
