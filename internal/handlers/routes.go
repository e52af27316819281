package handlers

import (
	"github.com/BatmanBruc/bat-bot-tariffs/internal/router"
)

// Register builds the route table. Order matters: the per-tariff
// exact-match callbacks and every other exact route go in before the
// pay_ prefix route, and the catch-all command route goes last.
func (bh *Handlers) Register(r *router.Router) {
	r.Register(router.OnCommand("start"), bh.HandleStart)
	r.Register(router.OnCommand("menu"), bh.HandleMenu)
	r.Register(router.OnCommand("help"), bh.HandleHelp)
	r.Register(router.OnCommand("tariffs"), bh.HandleTariffs)
	r.Register(router.OnCommand("pdf"), bh.HandlePdf)
	r.Register(router.OnCommand("lang"), bh.HandleLang)

	r.Register(router.OnCallback("main_menu"), bh.HandleMainMenu)
	r.Register(router.OnCallback("about"), bh.HandleAbout)
	r.Register(router.OnCallback("my_tariffs"), bh.HandleMyTariffs)
	r.Register(router.OnCallback("support"), bh.HandleSupport)
	for _, t := range bh.catalog.List() {
		r.Register(router.OnCallback(t.ID), bh.HandleTariffCard(t.ID))
	}
	r.Register(router.OnCallbackPrefix("pay_"), bh.HandlePay)

	r.Register(router.OnPaid(), bh.HandlePaid)
	r.Register(router.OnPreCheckout(), bh.HandlePreCheckout)

	r.Register(router.OnAnyCommand(), bh.HandleUnknownCommand)
}
