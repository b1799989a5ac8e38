package handlers

import (
	"food-ordering-api/config"
	"food-ordering-api/service"
	"food-ordering-api/storage"
)

// Handler carries the injected dependencies for all HTTP handlers. The store
// is built once in main and passed in; nothing here is package-level state.
type Handler struct {
	cfg    *config.Config
	store  storage.Store
	orders *service.OrderService
}

func New(cfg *config.Config, store storage.Store, orders *service.OrderService) *Handler {
	return &Handler{cfg: cfg, store: store, orders: orders}
}
