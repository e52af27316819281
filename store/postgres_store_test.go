package store

import (
	"testing"
	"time"

	"github.com/BatmanBruc/bat-bot-tariffs/types"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{db: mock}, mock
}

var paymentColumns = []string{
	"id", "user_id", "tariff", "currency", "amount",
	"payment_id", "telegram_charge_id", "purchased_at", "expires_at",
}

func TestRecordPayment(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	before := time.Now().UTC()
	rec, err := s.RecordPayment(types.Payment{
		UserID:    42,
		Tariff:    "premium",
		Currency:  "XTR",
		Amount:    200,
		PaymentID: "tok-1",
	}, 90*24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, int64(7), rec.ID)
	assert.WithinDuration(t, before, rec.PurchasedAt, 5*time.Second)
	assert.Equal(t, rec.PurchasedAt.Add(90*24*time.Hour), rec.ExpiresAt,
		"expiry is purchase plus duration, fixed at insert time")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	// ON CONFLICT DO NOTHING yields no row for a replayed payment_id
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, err := s.RecordPayment(types.Payment{
		UserID:    42,
		Tariff:    "premium",
		Currency:  "XTR",
		Amount:    200,
		PaymentID: "tok-1",
	}, 90*24*time.Hour)
	require.ErrorIs(t, err, ErrDuplicatePayment)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveTariffLatestWins(t *testing.T) {
	s, mock := newMockStore(t)

	day0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	asOf := day0.Add(15 * 24 * time.Hour)

	// ledger rows come back latest purchase first
	rows := pgxmock.NewRows(paymentColumns).
		AddRow(int64(2), int64(42), "premium", "XTR", int64(200), "tok-2", "",
			day0.Add(10*24*time.Hour), day0.Add(100*24*time.Hour)).
		AddRow(int64(1), int64(42), "basic", "XTR", int64(50), "tok-1", "",
			day0, day0.Add(30*24*time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	active, err := s.ActiveTariff(42, asOf)
	require.NoError(t, err)
	assert.Equal(t, "premium", active.Tariff,
		"latest purchase wins even while an older record is still unexpired")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveTariffExpiryBoundary(t *testing.T) {
	purchased := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	expires := purchased.Add(30 * 24 * time.Hour)

	tests := []struct {
		name   string
		asOf   time.Time
		active bool
	}{
		{"exactly at expiry", expires, false},
		{"one instant before expiry", expires.Add(-time.Nanosecond), true},
		{"after expiry", expires.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			rows := pgxmock.NewRows(paymentColumns).
				AddRow(int64(1), int64(42), "basic", "XTR", int64(50), "tok-1", "", purchased, expires)
			mock.ExpectQuery("SELECT (.+) FROM payments").
				WithArgs(int64(42)).
				WillReturnRows(rows)

			active, err := s.ActiveTariff(42, tt.asOf)
			if tt.active {
				require.NoError(t, err)
				assert.Equal(t, "basic", active.Tariff)
			} else {
				require.ErrorIs(t, err, ErrNoActiveTariff)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestActiveTariffEmptyHistory(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(paymentColumns))

	_, err := s.ActiveTariff(42, time.Now().UTC())
	require.ErrorIs(t, err, ErrNoActiveTariff)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentsHistory(t *testing.T) {
	s, mock := newMockStore(t)

	day0 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(paymentColumns).
		AddRow(int64(2), int64(42), "premium", "XTR", int64(200), "tok-2", "ch-2",
			day0.Add(24*time.Hour), day0.Add(91*24*time.Hour)).
		AddRow(int64(1), int64(42), "basic", "XTR", int64(50), "tok-1", "ch-1",
			day0, day0.Add(30*24*time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	history, err := s.PaymentsHistory(42)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "premium", history[0].Tariff)
	assert.Equal(t, "basic", history[1].Tariff)
	require.NoError(t, mock.ExpectationsWereMet())
}
