package router

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandlerFunc processes one update and reports how it went. Errors are
// consumed by Dispatch, never by the bot framework.
type HandlerFunc func(ctx context.Context, b *bot.Bot, update *models.Update) error

type Predicate func(update *models.Update) bool

// Notifier delivers a best-effort error notice to the user after a
// handler failed. It must not assume the update carries a chat.
type Notifier func(ctx context.Context, b *bot.Bot, update *models.Update, err error)

type route struct {
	match  Predicate
	handle HandlerFunc
}

// Router keeps an ordered route table. Dispatch walks it in
// registration order and stops at the first matching predicate, so an
// exact-match route must be registered before any prefix route that
// would also match its data.
type Router struct {
	routes []route
	notify Notifier
}

func New(notify Notifier) *Router {
	return &Router{notify: notify}
}

func (r *Router) Register(match Predicate, handle HandlerFunc) {
	if match == nil || handle == nil {
		return
	}
	r.routes = append(r.routes, route{match: match, handle: handle})
}

// Dispatch routes one update to at most one handler. Unmatched updates
// are logged and dropped; handler errors and panics are contained here
// so one bad update can never take down the polling loop.
func (r *Router) Dispatch(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil {
		return
	}
	for _, rt := range r.routes {
		if !rt.match(update) {
			continue
		}
		if err := r.invoke(ctx, b, update, rt.handle); err != nil {
			log.Printf("Handler error for update %d: %v", update.ID, err)
			if r.notify != nil {
				r.notify(ctx, b, update, err)
			}
		}
		return
	}
	log.Printf("No route matched update %d", update.ID)
}

func (r *Router) invoke(ctx context.Context, b *bot.Bot, update *models.Update, handle HandlerFunc) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler panic: %v", rec)
		}
	}()
	return handle(ctx, b, update)
}

// OnCommand matches "/name" messages, with or without the @botname
// suffix and trailing arguments.
func OnCommand(name string) Predicate {
	return func(update *models.Update) bool {
		return commandName(update) == name
	}
}

// OnAnyCommand matches every slash command. Register it after the
// known commands to catch the unknown ones.
func OnAnyCommand() Predicate {
	return func(update *models.Update) bool {
		return commandName(update) != ""
	}
}

func commandName(update *models.Update) string {
	if update.Message == nil {
		return ""
	}
	text := strings.TrimSpace(update.Message.Text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	cmd = strings.TrimPrefix(cmd, "/")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return cmd
}

func OnCallback(data string) Predicate {
	return func(update *models.Update) bool {
		return update.CallbackQuery != nil && strings.TrimSpace(update.CallbackQuery.Data) == data
	}
}

func OnCallbackPrefix(prefix string) Predicate {
	return func(update *models.Update) bool {
		return update.CallbackQuery != nil && strings.HasPrefix(strings.TrimSpace(update.CallbackQuery.Data), prefix)
	}
}

func OnPreCheckout() Predicate {
	return func(update *models.Update) bool {
		return update.PreCheckoutQuery != nil
	}
}

func OnPaid() Predicate {
	return func(update *models.Update) bool {
		return update.Message != nil && update.Message.SuccessfulPayment != nil
	}
}
