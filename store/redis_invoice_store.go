package store

import (
	"fmt"
	"time"

	"github.com/BatmanBruc/bat-bot-tariffs/types"
)

// RedisInvoiceStore keeps issued-but-unpaid invoices, keyed by their
// payment correlation token. Entries are transient: a paid invoice is
// deleted on confirmation, an abandoned one simply ages out with its
// TTL. Nothing here is authoritative; the ledger is.
type RedisInvoiceStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisInvoiceStore(redisClient *RedisClient, ttlHours int) *RedisInvoiceStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 24 * time.Hour
	}

	return &RedisInvoiceStore{
		client: redisClient,
		ttl:    ttl,
	}
}

func (s *RedisInvoiceStore) invoiceKey(paymentID string) string {
	return s.client.generateKey("pending_invoice", paymentID)
}

func (s *RedisInvoiceStore) PutPendingInvoice(inv *types.PendingInvoice) error {
	if inv == nil || inv.PaymentID == "" {
		return fmt.Errorf("pending invoice without payment id")
	}
	return s.client.Set(s.invoiceKey(inv.PaymentID), inv, s.ttl)
}

func (s *RedisInvoiceStore) GetPendingInvoice(paymentID string) (*types.PendingInvoice, error) {
	var inv types.PendingInvoice
	if err := s.client.Get(s.invoiceKey(paymentID), &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *RedisInvoiceStore) DeletePendingInvoice(paymentID string) error {
	return s.client.Del(s.invoiceKey(paymentID))
}
