package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/BatmanBruc/bat-bot-tariffs/internal/contextkeys"
	"github.com/BatmanBruc/bat-bot-tariffs/internal/i18n"
	"github.com/BatmanBruc/bat-bot-tariffs/types"
)

type Middlewares struct {
	users   types.UserStore
	options types.OptionsStore
}

func New(users types.UserStore, options types.OptionsStore) *Middlewares {
	return &Middlewares{
		users:   users,
		options: options,
	}
}

// IdentifyUserMiddleware resolves who sent the update, upserts the
// user record, and puts user/chat ids plus callback data into the
// context. Updates without an identifiable sender are dropped here.
func (m *Middlewares) IdentifyUserMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		var (
			from   *models.User
			chatID int64
		)

		switch {
		case update.Message != nil && update.Message.From != nil:
			from = update.Message.From
			chatID = update.Message.Chat.ID
		case update.CallbackQuery != nil:
			from = &update.CallbackQuery.From
			chatID = getChatIDFromMaybeInaccessibleMessage(update.CallbackQuery.Message)
		case update.PreCheckoutQuery != nil:
			from = update.PreCheckoutQuery.From
		default:
			return
		}

		if from == nil || from.ID == 0 {
			return
		}
		// Pre-checkout updates carry no chat. Use the chat recorded on
		// an earlier update before falling back to the user id.
		if chatID == 0 && m.users != nil {
			if u, err := m.users.GetUser(from.ID); err == nil && u != nil {
				chatID = u.ChatID
			}
		}
		if chatID == 0 {
			chatID = from.ID
		}

		if m.users != nil {
			err := m.users.UpsertUser(types.User{
				UserID:    from.ID,
				ChatID:    chatID,
				Username:  from.Username,
				FirstName: from.FirstName,
				LastName:  from.LastName,
			})
			if err != nil {
				log.Printf("Error upserting user %d: %v", from.ID, err)
			}
		}

		ctx = contextkeys.WithUserID(ctx, from.ID)
		ctx = contextkeys.WithChatID(ctx, chatID)
		if update.CallbackQuery != nil {
			ctx = contextkeys.WithCallbackData(ctx, strings.TrimSpace(update.CallbackQuery.Data))
		}
		if lang := m.resolveLang(from); lang != "" {
			ctx = contextkeys.WithLang(ctx, lang)
		}
		next(ctx, b, update)
	}
}

// resolveLang prefers the /lang override kept in the options store,
// falling back to the Telegram client language.
func (m *Middlewares) resolveLang(from *models.User) string {
	if m.options != nil {
		opts, err := m.options.GetUserOptions(from.ID)
		if err == nil {
			if v, ok := opts["lang"]; ok {
				if s, ok := v.(string); ok && s != "" {
					return string(i18n.Parse(s))
				}
			}
		}
	}
	return string(i18n.FromLanguageCode(from.LanguageCode))
}

func getChatIDFromMaybeInaccessibleMessage(m models.MaybeInaccessibleMessage) int64 {
	if m.Message != nil {
		return m.Message.Chat.ID
	}
	if m.InaccessibleMessage != nil {
		return m.InaccessibleMessage.Chat.ID
	}
	return 0
}
