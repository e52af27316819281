package handlers

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/BatmanBruc/bat-bot-tariffs/internal/contextkeys"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/i18n"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/messages"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/payments"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/tariffs"
	"github.com/BatmanBruc/bat-bot-tariffs/store"
	"github.com/BatmanBruc/bat-bot-tariffs/types"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type Handlers struct {
	catalog    *tariffs.Catalog
	flow       *payments.Flow
	billing    types.BillingStore
	options    types.OptionsStore
	pdfPath    string
	supportURL string
}

func NewHandlers(catalog *tariffs.Catalog, flow *payments.Flow, billing types.BillingStore, options types.OptionsStore) *Handlers {
	pdfPath := strings.TrimSpace(os.Getenv("PDF_PATH"))
	if pdfPath == "" {
		pdfPath = "presentation.pdf"
	}
	supportURL := strings.TrimSpace(os.Getenv("SUPPORT_URL"))
	if supportURL == "" {
		supportURL = "https://t.me/esteticcus"
	}
	return &Handlers{
		catalog:    catalog,
		flow:       flow,
		billing:    billing,
		options:    options,
		pdfPath:    pdfPath,
		supportURL: supportURL,
	}
}

func langFromCtx(ctx context.Context) i18n.Lang {
	if v, ok := contextkeys.GetLang(ctx); ok {
		return i18n.Parse(v)
	}
	return i18n.EN
}

func getChatIDFromUpdate(update *models.Update) int64 {
	if update == nil {
		return 0
	}
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message.Message != nil {
			return update.CallbackQuery.Message.Message.Chat.ID
		}
		if update.CallbackQuery.Message.InaccessibleMessage != nil {
			return update.CallbackQuery.Message.InaccessibleMessage.Chat.ID
		}
	}
	return 0
}

func (bh *Handlers) chatID(ctx context.Context, update *models.Update) int64 {
	if id := getChatIDFromUpdate(update); id != 0 {
		return id
	}
	if id, ok := contextkeys.GetChatID(ctx); ok {
		return id
	}
	return 0
}

func (bh *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) error {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	return err
}

func (bh *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) error {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: keyboard,
	})
	return err
}

// NotifyError is the router's best-effort user notice for handler
// failures. Tariff mistakes get their own text; anything touching the
// ledger reads as a transient outage; the rest is generic.
func (bh *Handlers) NotifyError(ctx context.Context, b *bot.Bot, update *models.Update, err error) {
	chatID := bh.chatID(ctx, update)
	if chatID == 0 {
		return
	}
	lang := langFromCtx(ctx)
	text := messages.ErrorDefault(lang)
	switch {
	case errors.Is(err, tariffs.ErrUnknownTariff), errors.Is(err, payments.ErrBadPayload):
		text = messages.ErrorUnknownTariff(lang)
	case errors.Is(err, store.ErrStorageUnavailable):
		text = messages.ErrorStorage(lang)
	}
	_ = bh.sendText(ctx, b, chatID, text, nil)
}
