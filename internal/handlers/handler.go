package handlers

import (
	"go.uber.org/zap"

	"pos-engine/internal/repository"
	"pos-engine/internal/service"
)

type Handler struct {
	OrderHandler   *OrderHandler
	CatalogHandler *CatalogHandler
}

func New(svc *service.Service, catalog repository.CatalogRepositoryInterface, log *zap.Logger) *Handler {
	return &Handler{
		OrderHandler:   NewOrderHandler(svc, log),
		CatalogHandler: NewCatalogHandler(catalog, log),
	}
}
