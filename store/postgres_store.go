package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BatmanBruc/bat-bot-tariffs/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var (
	// ErrDuplicatePayment means the payment_id already exists in the
	// ledger. The uniqueness lives in the database, not in application
	// code, so concurrently delivered duplicates cannot both insert.
	ErrDuplicatePayment = errors.New("duplicate payment")
	ErrNoActiveTariff   = errors.New("no active tariff")

	// ErrStorageUnavailable tags unexpected persistence failures so
	// handlers can surface them as a transient outage.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type pgxDB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	pool *pgxpool.Pool
	db   pgxDB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = buildPostgresDSNFromEnv()
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{pool: pool, db: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func buildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	if port == "" {
		port = "5432"
	}
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	if db == "" {
		db = "bot_tariffs"
	}
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	if user == "" {
		user = "bot_tariffs"
	}
	pass := os.Getenv("POSTGRES_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", urlEscape(user), urlEscape(pass), host, port, db)
}

func urlEscape(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		":", "%3A",
		"/", "%2F",
		"@", "%40",
		"?", "%3F",
		"#", "%23",
		"[", "%5B",
		"]", "%5D",
	)
	return r.Replace(s)
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

func (s *PostgresStore) UpsertUser(user types.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.db.Exec(ctx, `
INSERT INTO users (user_id, chat_id, username, first_name, last_name)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET
  chat_id = EXCLUDED.chat_id,
  username = EXCLUDED.username,
  first_name = EXCLUDED.first_name,
  last_name = EXCLUDED.last_name,
  updated_at = NOW();
`, user.UserID, user.ChatID, strings.TrimSpace(user.Username), strings.TrimSpace(user.FirstName), strings.TrimSpace(user.LastName))
	return err
}

func (s *PostgresStore) GetUser(userID int64) (*types.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var u types.User
	err := s.db.QueryRow(ctx, `
SELECT user_id, chat_id, username, first_name, last_name, created_at, updated_at
FROM users
WHERE user_id = $1
`, userID).Scan(&u.UserID, &u.ChatID, &u.Username, &u.FirstName, &u.LastName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// RecordPayment appends one row to the ledger. Purchase and expiry
// timestamps are fixed here, at insert time, and never recomputed.
// The insert and the duplicate check are a single statement: a
// replayed confirmation lands on the payment_id constraint and comes
// back as ErrDuplicatePayment without touching the earlier row.
func (s *PostgresStore) RecordPayment(p types.Payment, duration time.Duration) (*types.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p.PurchasedAt = time.Now().UTC()
	p.ExpiresAt = p.PurchasedAt.Add(duration)

	err := s.db.QueryRow(ctx, `
INSERT INTO payments (user_id, tariff, currency, amount, payment_id, telegram_charge_id, purchased_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (payment_id) DO NOTHING
RETURNING id
`, p.UserID, strings.TrimSpace(p.Tariff), strings.TrimSpace(p.Currency), p.Amount,
		strings.TrimSpace(p.PaymentID), strings.TrimSpace(p.TelegramPaymentCharge),
		p.PurchasedAt, p.ExpiresAt).Scan(&p.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDuplicatePayment
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ActiveTariff re-derives the user's subscription from the ledger: the
// record with the latest purchase among those not yet expired at asOf.
// History may hold overlapping and expired rows; nothing is cached
// between queries.
func (s *PostgresStore) ActiveTariff(userID int64, asOf time.Time) (*types.Payment, error) {
	records, err := s.PaymentsHistory(userID)
	if err != nil {
		return nil, err
	}
	for _, p := range records {
		if p.Active(asOf) {
			return p, nil
		}
	}
	return nil, ErrNoActiveTariff
}

// PaymentsHistory returns the user's ledger rows, latest purchase
// first.
func (s *PostgresStore) PaymentsHistory(userID int64) ([]*types.Payment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := s.db.Query(ctx, `
SELECT id, user_id, tariff, currency, amount, payment_id, telegram_charge_id, purchased_at, expires_at
FROM payments
WHERE user_id = $1
ORDER BY purchased_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*types.Payment
	for rows.Next() {
		var p types.Payment
		err := rows.Scan(&p.ID, &p.UserID, &p.Tariff, &p.Currency, &p.Amount,
			&p.PaymentID, &p.TelegramPaymentCharge, &p.PurchasedAt, &p.ExpiresAt)
		if err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
