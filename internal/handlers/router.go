package handlers

import "net/http"

func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/orders", h.OrderHandler.ListOrders)
	mux.HandleFunc("GET /api/v1/orders/stream", h.OrderHandler.StreamOrders)
	mux.HandleFunc("POST /api/v1/orders", h.OrderHandler.CreateOrder)
	mux.HandleFunc("POST /api/v1/orders/delete", h.OrderHandler.DeleteOrders)

	mux.HandleFunc("POST /api/v1/orders/{order_id}/lines/{product_id}/increase", h.OrderHandler.IncreaseQuantity)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/lines/{product_id}/decrease", h.OrderHandler.DecreaseQuantity)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/addons/{addon_id}/toggle", h.OrderHandler.ToggleAddOn)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/charges/{charge_id}/toggle", h.OrderHandler.ToggleCharge)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/select", h.OrderHandler.SelectOrder)
	mux.HandleFunc("POST /api/v1/orders/{order_id}/checkout", h.OrderHandler.CompleteCheckout)

	mux.HandleFunc("POST /api/v1/selection/{order_id}/toggle", h.OrderHandler.ToggleSelection)
	mux.HandleFunc("POST /api/v1/selection/all", h.OrderHandler.SelectAll)
	mux.HandleFunc("POST /api/v1/selection/clear", h.OrderHandler.Deselect)
	mux.HandleFunc("POST /api/v1/selection/delete", h.OrderHandler.DeleteSelected)

	mux.HandleFunc("GET /api/v1/catalog", h.CatalogHandler.ListCatalog)
	mux.HandleFunc("POST /api/v1/catalog/products", h.CatalogHandler.CreateProduct)
	mux.HandleFunc("POST /api/v1/catalog/addons", h.CatalogHandler.CreateAddOn)
	mux.HandleFunc("POST /api/v1/catalog/charges", h.CatalogHandler.CreateCharge)
	mux.HandleFunc("POST /api/v1/catalog/customers", h.CatalogHandler.CreateCustomer)
	mux.HandleFunc("POST /api/v1/catalog/addresses", h.CatalogHandler.CreateAddress)

	return mux
}
