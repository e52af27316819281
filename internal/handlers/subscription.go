package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BatmanBruc/bat-bot-tariffs/internal/contextkeys"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/messages"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/payments"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/tariffs"
	"github.com/BatmanBruc/bat-bot-tariffs/store"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func nowUTC() time.Time { return time.Now().UTC() }

// HandlePay reacts to a pay_<tariff> button: it issues the invoice for
// the tariff's exact price and hands it to the transport. An
// unrecognized suffix answers with a tariff error instead of failing
// the dispatch loop.
func (bh *Handlers) HandlePay(ctx context.Context, b *bot.Bot, update *models.Update) error {
	lang := langFromCtx(ctx)
	userID := resolveUserID(ctx, update)

	data, _ := contextkeys.GetCallbackData(ctx)
	if data == "" {
		data = strings.TrimSpace(update.CallbackQuery.Data)
	}
	tariffID := strings.TrimPrefix(data, "pay_")

	inv, err := bh.flow.IssueInvoice(userID, tariffID)
	if errors.Is(err, tariffs.ErrUnknownTariff) {
		return bh.answerCallback(ctx, b, update.CallbackQuery.ID, messages.ErrorUnknownTariff(lang))
	}
	if err != nil {
		return err
	}

	_, err = b.SendInvoice(ctx, &bot.SendInvoiceParams{
		ChatID:      bh.chatID(ctx, update),
		Title:       messages.InvoiceTitle(inv.Tariff.ID),
		Description: messages.InvoiceDescription(inv.Tariff.ID, inv.Tariff.Days),
		Payload:     inv.Payload,
		Currency:    "XTR",
		Prices: []models.LabeledPrice{
			{Label: messages.InvoiceTitle(inv.Tariff.ID), Amount: inv.Tariff.Price},
		},
		StartParameter: "tariff_" + inv.Tariff.ID,
		ProviderToken:  "",
	})
	if err != nil {
		return fmt.Errorf("send invoice: %w", err)
	}
	return bh.answerCallback(ctx, b, update.CallbackQuery.ID, messages.PaymentCreated(lang))
}

// HandlePreCheckout answers the payment transport's pre-authorization
// probe. The answer is unconditional and the path does no storage I/O,
// so it always fits the transport's acknowledgment window.
func (bh *Handlers) HandlePreCheckout(ctx context.Context, b *bot.Bot, update *models.Update) error {
	q := update.PreCheckoutQuery
	ok := bh.flow.ApprovePreAuth(q.InvoicePayload)
	_, err := b.AnswerPreCheckoutQuery(ctx, &bot.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: q.ID,
		OK:                 ok,
	})
	if err != nil {
		return fmt.Errorf("answer pre-checkout %s: %w", q.ID, err)
	}
	return nil
}

// HandlePaid applies a confirmed payment. Replayed confirmations come
// back as duplicates and are acknowledged without a second grant; a
// payload naming an unknown tariff grants nothing.
func (bh *Handlers) HandlePaid(ctx context.Context, b *bot.Bot, update *models.Update) error {
	lang := langFromCtx(ctx)
	userID := resolveUserID(ctx, update)
	p := update.Message.SuccessfulPayment

	conf, err := bh.flow.Confirm(userID, p.InvoicePayload, int64(p.TotalAmount), p.TelegramPaymentChargeID)
	if errors.Is(err, tariffs.ErrUnknownTariff) || errors.Is(err, payments.ErrBadPayload) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: confirm payment for %d: %v", store.ErrStorageUnavailable, userID, err)
	}

	chatID := bh.chatID(ctx, update)
	kb := bh.mainMenuKeyboard(lang)
	if conf.Duplicate {
		return bh.sendText(ctx, b, chatID, messages.PaymentAlreadyProcessed(lang), &kb)
	}
	text := messages.PaymentSucceeded(lang, conf.Record.Tariff, conf.Record.Amount, conf.Record.PurchasedAt, conf.Record.ExpiresAt)
	return bh.sendText(ctx, b, chatID, text, &kb)
}
