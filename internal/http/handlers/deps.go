package handlers

import (
	"github.com/jmoiron/sqlx"

	"github.com/renantorres0/smartcommerce/internal/config"
	"github.com/renantorres0/smartcommerce/internal/lock"
	"github.com/renantorres0/smartcommerce/internal/messages"
	"github.com/renantorres0/smartcommerce/internal/services"
)

type Deps struct {
	Ledger *services.LedgerService

	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	SaleHandler      *SaleHandler
	OrderHandler     *OrderHandler
	MovementHandler  *MovementHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, locks lock.Locker, msg *messages.Translator) *Deps {
	ledger := services.NewLedgerService(db, locks, cfg.FullJournal)

	return &Deps{
		Ledger:           ledger,
		ProductHandler:   &ProductHandler{Ledger: ledger, Msg: msg},
		InventoryHandler: &InventoryHandler{Ledger: ledger, Msg: msg},
		SaleHandler:      &SaleHandler{Ledger: ledger, Msg: msg},
		OrderHandler:     &OrderHandler{Ledger: ledger, Msg: msg},
		MovementHandler:  &MovementHandler{Ledger: ledger, Msg: msg},
	}
}
