package payments

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/BatmanBruc/bat-bot-tariffs/internal/tariffs"
	"github.com/BatmanBruc/bat-bot-tariffs/store"
	"github.com/BatmanBruc/bat-bot-tariffs/types"
	"github.com/google/uuid"
)

var ErrBadPayload = errors.New("malformed invoice payload")

// Flow drives one purchase attempt from tariff selection to the ledger
// write. There is no stored per-user cursor: each external event
// carries the correlation token and independently advances whatever
// attempt it belongs to, so duplicated or reordered deliveries for the
// same token are safe.
type Flow struct {
	catalog  *tariffs.Catalog
	billing  types.BillingStore
	invoices types.InvoiceStore
}

func NewFlow(catalog *tariffs.Catalog, billing types.BillingStore, invoices types.InvoiceStore) *Flow {
	return &Flow{
		catalog:  catalog,
		billing:  billing,
		invoices: invoices,
	}
}

// Invoice is everything the transport needs to bill the user. Payload
// travels through Telegram and comes back on pre-checkout and on the
// successful-payment message.
type Invoice struct {
	UserID    int64
	Tariff    tariffs.Tariff
	PaymentID string
	Payload   string
}

// Confirmation is the terminal outcome of a purchase attempt.
// Duplicate marks an at-least-once redelivery: the grant already
// exists and no second record was created.
type Confirmation struct {
	Tariff    tariffs.Tariff
	Record    *types.Payment
	Duplicate bool
}

// SelectTariff validates a tariff pick against the catalog. An unknown
// id fails and leaves the conversation where it was.
func (f *Flow) SelectTariff(tariffID string) (tariffs.Tariff, error) {
	return f.catalog.Get(tariffID)
}

// IssueInvoice builds the payment request for the tariff's exact price
// and assigns the correlation token that will identify this attempt
// for the rest of its life. Nothing durable happens here: an invoice
// that is never paid leaves no trace in the ledger.
func (f *Flow) IssueInvoice(userID int64, tariffID string) (*Invoice, error) {
	t, err := f.catalog.Get(tariffID)
	if err != nil {
		return nil, err
	}
	token := uuid.NewString()
	inv := &Invoice{
		UserID:    userID,
		Tariff:    t,
		PaymentID: token,
		Payload:   EncodePayload(t.ID, token),
	}
	if f.invoices != nil {
		err := f.invoices.PutPendingInvoice(&types.PendingInvoice{
			UserID:    userID,
			Tariff:    t.ID,
			Amount:    int64(t.Price),
			PaymentID: token,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			log.Printf("Failed to remember pending invoice %s: %v", token, err)
		}
	}
	return inv, nil
}

// ApprovePreAuth answers the transport's pre-checkout probe. Digital
// tariffs in Stars have nothing to reserve or verify, so the answer is
// an unconditional yes and must not touch storage: the transport gives
// us only a short acknowledgment window.
func (f *Flow) ApprovePreAuth(payload string) bool {
	return true
}

// Confirm applies a successful-payment event to the ledger. The tariff
// is resolved from the payload; a payload naming a tariff this bot
// does not sell fails with tariffs.ErrUnknownTariff and grants
// nothing. A replayed confirmation hits the payment_id uniqueness
// constraint and comes back as Duplicate instead of a second grant.
func (f *Flow) Confirm(userID int64, payload string, amount int64, chargeID string) (*Confirmation, error) {
	tariffID, token, err := DecodePayload(payload)
	if err != nil {
		return nil, err
	}
	t, err := f.catalog.Get(tariffID)
	if err != nil {
		return nil, err
	}
	if f.invoices != nil {
		if pending, err := f.invoices.GetPendingInvoice(token); err == nil && pending != nil {
			if pending.Amount != amount {
				log.Printf("Confirmation amount %d differs from invoiced %d for %s", amount, pending.Amount, token)
			}
		}
	}
	record, err := f.billing.RecordPayment(types.Payment{
		UserID:                userID,
		Tariff:                t.ID,
		Currency:              "XTR",
		Amount:                amount,
		PaymentID:             token,
		TelegramPaymentCharge: chargeID,
	}, t.Duration())
	if errors.Is(err, store.ErrDuplicatePayment) {
		return &Confirmation{Tariff: t, Duplicate: true}, nil
	}
	if err != nil {
		return nil, err
	}
	if f.invoices != nil {
		_ = f.invoices.DeletePendingInvoice(token)
	}
	return &Confirmation{Tariff: t, Record: record}, nil
}

// EncodePayload packs the tariff id and correlation token into the
// opaque string Telegram echoes back with payment events.
func EncodePayload(tariffID, token string) string {
	return tariffID + ":" + token
}

func DecodePayload(payload string) (tariffID, token string, err error) {
	tariffID, token, ok := strings.Cut(strings.TrimSpace(payload), ":")
	if !ok || tariffID == "" || token == "" {
		return "", "", fmt.Errorf("%w: %q", ErrBadPayload, payload)
	}
	return tariffID, token, nil
}
