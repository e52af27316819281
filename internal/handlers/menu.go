package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/BatmanBruc/bat-bot-tariffs/internal/i18n"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/messages"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/router"
	"github.com/BatmanBruc/bat-bot-tariffs/store"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func pad(s string) string { return "   " + s + "   " }

func (bh *Handlers) mainMenuKeyboard(lang i18n.Lang) models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, 4)
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: pad(messages.MenuBtnAbout(lang)), CallbackData: "about"},
	})
	tariffRow := make([]models.InlineKeyboardButton, 0, 2)
	for _, t := range bh.catalog.List() {
		tariffRow = append(tariffRow, models.InlineKeyboardButton{
			Text:         messages.TariffBtn(lang, t.ID),
			CallbackData: t.ID,
		})
	}
	rows = append(rows, tariffRow)
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: pad(messages.MenuBtnMyTariffs(lang)), CallbackData: "my_tariffs"},
	})
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: pad(messages.MenuBtnSupport(lang)), CallbackData: "support"},
	})
	return models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (bh *Handlers) tariffKeyboard(lang i18n.Lang) models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, 3)
	for _, t := range bh.catalog.List() {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: pad(messages.TariffBtn(lang, t.ID)), CallbackData: t.ID},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: pad(messages.MenuBtnMainMenu(lang)), CallbackData: "main_menu"},
	})
	return models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func (bh *Handlers) backToMenuKeyboard(lang i18n.Lang) models.InlineKeyboardMarkup {
	return models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: pad(messages.MenuBtnMainMenu(lang)), CallbackData: "main_menu"}},
	}}
}

func (bh *Handlers) sendMainMenu(ctx context.Context, b *bot.Bot, chatID int64, lang i18n.Lang) error {
	kb := bh.mainMenuKeyboard(lang)
	return bh.sendText(ctx, b, chatID, messages.MainMenuText(lang), &kb)
}

func (bh *Handlers) HandleMainMenu(ctx context.Context, b *bot.Bot, update *models.Update) error {
	_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
	return bh.sendMainMenu(ctx, b, bh.chatID(ctx, update), langFromCtx(ctx))
}

func (bh *Handlers) HandleAbout(ctx context.Context, b *bot.Bot, update *models.Update) error {
	_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
	lang := langFromCtx(ctx)
	kb := bh.backToMenuKeyboard(lang)
	return bh.sendText(ctx, b, bh.chatID(ctx, update), messages.AboutService(lang), &kb)
}

// HandleTariffCard returns the handler for one tariff-selection
// button: the tariff description plus a pay button carrying the
// tariff id in the pay_ namespace.
func (bh *Handlers) HandleTariffCard(tariffID string) router.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) error {
		_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
		lang := langFromCtx(ctx)

		t, err := bh.flow.SelectTariff(tariffID)
		if err != nil {
			return err
		}

		kb := models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: pad(messages.MenuBtnPay(lang)), CallbackData: "pay_" + t.ID}},
			{{Text: pad(messages.MenuBtnMainMenu(lang)), CallbackData: "main_menu"}},
		}}
		return bh.sendText(ctx, b, bh.chatID(ctx, update), messages.TariffCard(lang, t.ID, t.Price, t.Days), &kb)
	}
}

func (bh *Handlers) HandleMyTariffs(ctx context.Context, b *bot.Bot, update *models.Update) error {
	_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
	lang := langFromCtx(ctx)
	userID := resolveUserID(ctx, update)

	kb := bh.tariffKeyboard(lang)
	active, err := bh.billing.ActiveTariff(userID, nowUTC())
	if errors.Is(err, store.ErrNoActiveTariff) {
		return bh.sendText(ctx, b, bh.chatID(ctx, update), messages.NoActiveTariffs(lang), &kb)
	}
	if err != nil {
		return fmt.Errorf("%w: active tariff for %d: %v", store.ErrStorageUnavailable, userID, err)
	}
	return bh.sendText(ctx, b, bh.chatID(ctx, update), messages.ActiveTariffDetails(lang, active.Tariff, active.ExpiresAt), &kb)
}

func (bh *Handlers) HandleSupport(ctx context.Context, b *bot.Bot, update *models.Update) error {
	_ = bh.answerCallback(ctx, b, update.CallbackQuery.ID, "")
	lang := langFromCtx(ctx)

	kb := models.InlineKeyboardMarkup{InlineKeyboard: [][]models.InlineKeyboardButton{
		{{Text: pad(messages.MenuBtnSupport(lang)), URL: bh.supportURL}},
		{{Text: pad(messages.MenuBtnMainMenu(lang)), CallbackData: "main_menu"}},
	}}
	return bh.sendText(ctx, b, bh.chatID(ctx, update), messages.Support(lang), &kb)
}
