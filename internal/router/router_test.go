package router

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttonPress(data string) *models.Update {
	return &models.Update{
		ID:            1,
		CallbackQuery: &models.CallbackQuery{ID: "cb1", Data: data},
	}
}

func command(text string) *models.Update {
	return &models.Update{
		ID:      2,
		Message: &models.Message{Text: text},
	}
}

func countingHandler(n *int) HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) error {
		*n++
		return nil
	}
}

func TestDispatchFirstMatchWins(t *testing.T) {
	var exact, prefix int
	r := New(nil)
	r.Register(OnCallback("pay_basic"), countingHandler(&exact))
	r.Register(OnCallbackPrefix("pay_"), countingHandler(&prefix))

	r.Dispatch(context.Background(), nil, buttonPress("pay_basic"))
	assert.Equal(t, 1, exact, "exact route registered first must win")
	assert.Equal(t, 0, prefix, "at most one handler per update")

	r.Dispatch(context.Background(), nil, buttonPress("pay_premium"))
	assert.Equal(t, 1, exact)
	assert.Equal(t, 1, prefix)
}

func TestDispatchUnmatched(t *testing.T) {
	var called int
	notified := 0
	r := New(func(ctx context.Context, b *bot.Bot, update *models.Update, err error) {
		notified++
	})
	r.Register(OnCallback("about"), countingHandler(&called))

	require.NotPanics(t, func() {
		r.Dispatch(context.Background(), nil, buttonPress("nonexistent_action"))
	})
	assert.Equal(t, 0, called, "unmatched update must reach no handler")
	assert.Equal(t, 0, notified, "unmatched update is logged, not surfaced")
}

func TestDispatchHandlerError(t *testing.T) {
	boom := errors.New("boom")
	var got error
	r := New(func(ctx context.Context, b *bot.Bot, update *models.Update, err error) {
		got = err
	})
	r.Register(OnCallback("bad"), func(ctx context.Context, b *bot.Bot, update *models.Update) error {
		return boom
	})
	var ok int
	r.Register(OnCallback("good"), countingHandler(&ok))

	r.Dispatch(context.Background(), nil, buttonPress("bad"))
	require.ErrorIs(t, got, boom)

	// the failed handler must not poison later dispatches
	r.Dispatch(context.Background(), nil, buttonPress("good"))
	assert.Equal(t, 1, ok)
}

func TestDispatchHandlerPanic(t *testing.T) {
	var got error
	r := New(func(ctx context.Context, b *bot.Bot, update *models.Update, err error) {
		got = err
	})
	r.Register(OnCallback("panic"), func(ctx context.Context, b *bot.Bot, update *models.Update) error {
		panic("unexpected")
	})

	require.NotPanics(t, func() {
		r.Dispatch(context.Background(), nil, buttonPress("panic"))
	})
	require.Error(t, got)
	assert.Contains(t, got.Error(), "panic")
}

func TestOnCommand(t *testing.T) {
	tests := []struct {
		name   string
		update *models.Update
		want   bool
	}{
		{"plain", command("/start"), true},
		{"with bot suffix", command("/start@tariff_bot"), true},
		{"with args", command("/start ref123"), true},
		{"different command", command("/started"), false},
		{"no slash", command("start"), false},
		{"callback update", buttonPress("start"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OnCommand("start")(tt.update))
		})
	}
}

func TestOnAnyCommand(t *testing.T) {
	assert.True(t, OnAnyCommand()(command("/whatever")))
	assert.False(t, OnAnyCommand()(command("hello")))
	assert.False(t, OnAnyCommand()(buttonPress("pay_basic")))
}

func TestPaymentPredicates(t *testing.T) {
	pre := &models.Update{PreCheckoutQuery: &models.PreCheckoutQuery{ID: "q1"}}
	paid := &models.Update{Message: &models.Message{SuccessfulPayment: &models.SuccessfulPayment{}}}

	assert.True(t, OnPreCheckout()(pre))
	assert.False(t, OnPreCheckout()(paid))
	assert.True(t, OnPaid()(paid))
	assert.False(t, OnPaid()(pre))
	assert.False(t, OnPaid()(command("/start")))
}
