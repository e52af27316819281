package handlers

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/BatmanBruc/bat-bot-tariffs/internal/contextkeys"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/i18n"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/messages"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleStart sends the welcome text, the presentation document when it
// is present on disk, and the main menu. A missing or failed document
// never blocks the menu.
func (bh *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) error {
	chatID := bh.chatID(ctx, update)
	lang := langFromCtx(ctx)

	if err := bh.sendText(ctx, b, chatID, messages.StartWelcome(lang), nil); err != nil {
		return err
	}
	bh.sendPresentation(ctx, b, chatID, lang)
	return bh.sendMainMenu(ctx, b, chatID, lang)
}

func (bh *Handlers) sendPresentation(ctx context.Context, b *bot.Bot, chatID int64, lang i18n.Lang) bool {
	f, err := os.Open(bh.pdfPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error opening presentation %s: %v", bh.pdfPath, err)
		}
		return false
	}
	defer f.Close()

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: "presentation.pdf",
			Data:     f,
		},
		Caption: messages.PresentationCaption(lang),
	})
	if err != nil {
		log.Printf("Error sending presentation: %v", err)
		return false
	}
	return true
}

// HandlePdf re-sends the presentation document on demand.
func (bh *Handlers) HandlePdf(ctx context.Context, b *bot.Bot, update *models.Update) error {
	chatID := bh.chatID(ctx, update)
	lang := langFromCtx(ctx)
	if !bh.sendPresentation(ctx, b, chatID, lang) {
		return bh.sendText(ctx, b, chatID, messages.PresentationUnavailable(lang), nil)
	}
	return nil
}

func (bh *Handlers) HandleMenu(ctx context.Context, b *bot.Bot, update *models.Update) error {
	return bh.sendMainMenu(ctx, b, bh.chatID(ctx, update), langFromCtx(ctx))
}

func (bh *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) error {
	lang := langFromCtx(ctx)
	kb := bh.tariffKeyboard(lang)
	return bh.sendText(ctx, b, bh.chatID(ctx, update), messages.AboutService(lang), &kb)
}

// HandleTariffs lists the tariffs with a selection button per tier.
func (bh *Handlers) HandleTariffs(ctx context.Context, b *bot.Bot, update *models.Update) error {
	lang := langFromCtx(ctx)
	kb := bh.tariffKeyboard(lang)
	return bh.sendText(ctx, b, bh.chatID(ctx, update), messages.ChooseTariff(lang), &kb)
}

func (bh *Handlers) HandleLang(ctx context.Context, b *bot.Bot, update *models.Update) error {
	chatID := bh.chatID(ctx, update)
	lang := langFromCtx(ctx)
	userID := resolveUserID(ctx, update)

	fields := strings.Fields(update.Message.Text)
	if len(fields) < 2 || bh.options == nil {
		return bh.sendText(ctx, b, chatID, messages.LangUsage(lang), nil)
	}

	opts, err := bh.options.GetUserOptions(userID)
	if err != nil {
		opts = map[string]interface{}{}
	}
	arg := strings.ToLower(strings.TrimSpace(fields[1]))
	switch arg {
	case "ru", "en":
		opts["lang"] = arg
		if err := bh.options.SetUserOptions(userID, opts); err != nil {
			log.Printf("Error saving lang for user %d: %v", userID, err)
		}
		return bh.sendText(ctx, b, chatID, messages.LangSet(i18n.Parse(arg)), nil)
	case "auto":
		delete(opts, "lang")
		if err := bh.options.SetUserOptions(userID, opts); err != nil {
			log.Printf("Error saving lang for user %d: %v", userID, err)
		}
		return bh.sendText(ctx, b, chatID, messages.LangAuto(lang), nil)
	default:
		return bh.sendText(ctx, b, chatID, messages.LangInvalid(lang), nil)
	}
}

func (bh *Handlers) HandleUnknownCommand(ctx context.Context, b *bot.Bot, update *models.Update) error {
	return bh.sendText(ctx, b, bh.chatID(ctx, update), messages.ErrorUnknownCommand(langFromCtx(ctx)), nil)
}

// resolveUserID prefers the id the middleware put into the context and
// falls back to digging it out of the update.
func resolveUserID(ctx context.Context, update *models.Update) int64 {
	if id, ok := contextkeys.GetUserID(ctx); ok && id != 0 {
		return id
	}
	return userIDFromUpdate(update)
}

func userIDFromUpdate(update *models.Update) int64 {
	switch {
	case update == nil:
		return 0
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID
	case update.PreCheckoutQuery != nil:
		return update.PreCheckoutQuery.From.ID
	}
	return 0
}
