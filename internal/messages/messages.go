package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/BatmanBruc/bat-bot-tariffs/internal/i18n"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

func TariffLabel(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return id
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

func formatDate(t time.Time) string {
	return t.UTC().Format("02.01.2006 15:04")
}

func StartWelcome(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "🎉 <b>Добро пожаловать в наш сервис!</b>\n\n" +
			"Здесь вы можете выбрать подходящий тариф и начать пользоваться всеми преимуществами.\n\n" +
			"📋 Презентация сервиса прикреплена ниже 👇"
	}
	return "🎉 <b>Welcome!</b>\n\n" +
		"Pick a tariff that suits you and enjoy everything the service offers.\n\n" +
		"📋 The service presentation is attached below 👇"
}

func PresentationCaption(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "📋 Презентация сервиса"
	}
	return "📋 Service presentation"
}

func PresentationUnavailable(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "📋 Презентация временно недоступна."
	}
	return "📋 The presentation is temporarily unavailable."
}

func MainMenuText(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "🏠 <b>Главное меню</b> – выберите действие:"
	}
	return "🏠 <b>Main menu</b> – choose an action:"
}

func AboutService(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "ℹ️ <b>О сервисе</b>\n\n" +
			"Наш сервис предоставляет профессиональные решения для вашего бизнеса.\n\n" +
			"✨ Основные преимущества:\n" +
			"• 100% надежность\n" +
			"• Удобный интерфейс\n" +
			"• Поддержка 24/7\n\n" +
			"👇 Выберите подходящий тариф!"
	}
	return "ℹ️ <b>About the service</b>\n\n" +
		"We provide professional solutions for your business.\n\n" +
		"✨ Highlights:\n" +
		"• 100% reliability\n" +
		"• Simple interface\n" +
		"• 24/7 support\n\n" +
		"👇 Pick the tariff that fits!"
}

func ChooseTariff(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "💎 <b>Наши тарифы</b>\n\n👇 Выберите подходящий тариф:"
	}
	return "💎 <b>Our tariffs</b>\n\n👇 Choose a tariff below:"
}

func TariffCard(lang i18n.Lang, id string, priceStars, days int) string {
	label := TariffLabel(id)
	if lang == i18n.RU {
		return fmt.Sprintf("💎 <b>Тариф %s – %d ⭐</b>\n\n"+
			"• Доступ ко всем функциям тарифа\n"+
			"• Поддержка 24/7\n"+
			"• Действует %d дней\n\n"+
			"💰 Стоимость: %d Telegram Stars\n\n"+
			"👇 Нажмите «Оплатить» для активации", Escape(label), priceStars, days, priceStars)
	}
	return fmt.Sprintf("💎 <b>%s tariff – %d ⭐</b>\n\n"+
		"• Access to everything the tariff includes\n"+
		"• 24/7 support\n"+
		"• Valid for %d days\n\n"+
		"💰 Price: %d Telegram Stars\n\n"+
		"👇 Tap “Pay” to activate", Escape(label), priceStars, days, priceStars)
}

func InvoiceTitle(id string) string {
	return fmt.Sprintf("Тариф %s", TariffLabel(id))
}

func InvoiceDescription(id string, days int) string {
	return fmt.Sprintf("Подписка %s на %d дней", TariffLabel(id), days)
}

func PaymentSucceeded(lang i18n.Lang, tariff string, amount int64, purchased, expires time.Time) string {
	label := Escape(TariffLabel(tariff))
	if lang == i18n.RU {
		return fmt.Sprintf("✅ <b>Платеж успешно завершен!</b>\n\n"+
			"🎉 Тариф %s активирован!\n"+
			"📅 Дата покупки: %s\n"+
			"⏰ Действует до: %s\n"+
			"💰 Сумма: %d ⭐\n\n"+
			"🚀 Теперь вы можете пользоваться всеми возможностями!\n"+
			"Спасибо за выбор нашего сервиса! ✨",
			label, formatDate(purchased), formatDate(expires), amount)
	}
	return fmt.Sprintf("✅ <b>Payment completed!</b>\n\n"+
		"🎉 The %s tariff is active!\n"+
		"📅 Purchased: %s\n"+
		"⏰ Valid until: %s\n"+
		"💰 Amount: %d ⭐\n\n"+
		"🚀 Enjoy everything the service offers!\n"+
		"Thank you for choosing us! ✨",
		label, formatDate(purchased), formatDate(expires), amount)
}

func PaymentAlreadyProcessed(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "✅ <b>Этот платеж уже учтен</b>\nВаш тариф активен."
	}
	return "✅ <b>This payment was already processed</b>\nYour tariff is active."
}

func NoActiveTariffs(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "📭 <b>У вас нет активных тарифов</b>\n\n💡 Нажмите на тариф ниже!"
	}
	return "📭 <b>You have no active tariffs</b>\n\n💡 Pick a tariff below!"
}

func ActiveTariffDetails(lang i18n.Lang, tariff string, expires time.Time) string {
	label := Escape(TariffLabel(tariff))
	if lang == i18n.RU {
		return fmt.Sprintf("✅ <b>Активный тариф: %s</b>\n⏰ Действует до: %s", label, formatDate(expires))
	}
	return fmt.Sprintf("✅ <b>Active tariff: %s</b>\n⏰ Valid until: %s", label, formatDate(expires))
}

func Support(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "💬 <b>Связь с поддержкой</b>\n\nНапишите нам напрямую 👇"
	}
	return "💬 <b>Contact support</b>\n\nMessage us directly 👇"
}

func PaymentCreated(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "Счет отправлен"
	}
	return "Invoice sent"
}

func ErrorDefault(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "🚫 <b>Ошибка</b>\nПопробуйте ещё раз."
	}
	return "🚫 <b>Error</b>\nPlease try again."
}

func ErrorUnknownCommand(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "❓ <b>Команда не найдена</b>"
	}
	return "❓ <b>Unknown command</b>"
}

func ErrorUnknownTariff(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "🚫 <b>Такого тарифа нет</b>\nВыберите тариф из меню."
	}
	return "🚫 <b>No such tariff</b>\nPick one from the menu."
}

func ErrorStorage(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "⏳ <b>Сервис временно недоступен</b>\nПопробуйте ещё раз через минуту."
	}
	return "⏳ <b>Service temporarily unavailable</b>\nPlease try again in a minute."
}

func LangUsage(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "Использование: <code>/lang ru|en|auto</code>"
	}
	return "Usage: <code>/lang ru|en|auto</code>"
}

func LangSet(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "Язык переключен на русский."
	}
	return "Language switched to English."
}

func LangAuto(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "Язык определяется автоматически."
	}
	return "Language is detected automatically."
}

func LangInvalid(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "Неизвестный язык. Доступно: ru, en, auto."
	}
	return "Unknown language. Available: ru, en, auto."
}

func MenuBtnAbout(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "ℹ️ О сервисе"
	}
	return "ℹ️ About"
}

func MenuBtnMyTariffs(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "📋 Мои тарифы"
	}
	return "📋 My tariffs"
}

func MenuBtnSupport(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "💬 Поддержка"
	}
	return "💬 Support"
}

func MenuBtnMainMenu(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "🏠 Главное меню"
	}
	return "🏠 Main menu"
}

func MenuBtnPay(lang i18n.Lang) string {
	if lang == i18n.RU {
		return "💳 Оплатить"
	}
	return "💳 Pay"
}

func TariffBtn(lang i18n.Lang, id string) string {
	icon := "💎"
	if strings.EqualFold(id, "premium") {
		icon = "👑"
	}
	if lang == i18n.RU {
		return fmt.Sprintf("%s Тариф %s", icon, TariffLabel(id))
	}
	return fmt.Sprintf("%s %s tariff", icon, TariffLabel(id))
}
