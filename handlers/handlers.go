// Package handlers contains the HTTP layer. Handlers hold their service
// dependencies explicitly; there are no package-level singletons.
package handlers

import (
	"souq-delivery-api/middleware"
	"souq-delivery-api/state"
)

type Handler struct {
	Auth     *state.AuthService
	Catalog  *state.CatalogService
	Orders   *state.OrderService
	Currency *state.CurrencyService
	Tokens   *middleware.Auth
}

func New(auth *state.AuthService, catalog *state.CatalogService, orders *state.OrderService, currency *state.CurrencyService, tokens *middleware.Auth) *Handler {
	return &Handler{
		Auth:     auth,
		Catalog:  catalog,
		Orders:   orders,
		Currency: currency,
		Tokens:   tokens,
	}
}
