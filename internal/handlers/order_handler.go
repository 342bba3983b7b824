package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"pos-engine/internal/domain"
	"pos-engine/internal/service"
)

type OrderHandler struct {
	svc *service.Service
	log *zap.Logger
}

func NewOrderHandler(svc *service.Service, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

func (oh *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	groups, err := oh.svc.Orders.ListOrders(r.Context(), f)
	if err != nil {
		oh.log.Error("list orders failed", zap.Error(err))
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	if groups == nil {
		groups = []domain.OrderGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

// StreamOrders serves the live subscription over SSE. Each connection is one
// watcher; reconnecting with new query params replaces the old subscription.
func (oh *OrderHandler) StreamOrders(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	watcher := oh.svc.NewWatcher()
	defer watcher.Close()
	watcher.SetQuery(r.Context(), filterFromQuery(r))

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-watcher.Snapshots():
			data, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			if _, err := w.Write([]byte("data: ")); err != nil {
				return
			}
			if _, err := w.Write(data); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (oh *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	resp := oh.svc.Orders.CreateOrder(r.Context(), req)
	status := http.StatusCreated
	if !resp.Result.OK {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (oh *OrderHandler) IncreaseQuantity(w http.ResponseWriter, r *http.Request) {
	oh.mutateQuantity(w, r, 1)
}

func (oh *OrderHandler) DecreaseQuantity(w http.ResponseWriter, r *http.Request) {
	oh.mutateQuantity(w, r, -1)
}

func (oh *OrderHandler) mutateQuantity(w http.ResponseWriter, r *http.Request, delta int) {
	orderID, ok1 := pathID(r, "order_id")
	productID, ok2 := pathID(r, "product_id")
	if !ok1 || !ok2 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeResult(w, oh.svc.Orders.MutateQuantity(r.Context(), orderID, productID, delta))
}

func (oh *OrderHandler) ToggleAddOn(w http.ResponseWriter, r *http.Request) {
	orderID, ok1 := pathID(r, "order_id")
	addonID, ok2 := pathID(r, "addon_id")
	if !ok1 || !ok2 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeResult(w, oh.svc.Orders.ToggleAddOn(r.Context(), orderID, addonID))
}

func (oh *OrderHandler) ToggleCharge(w http.ResponseWriter, r *http.Request) {
	orderID, ok1 := pathID(r, "order_id")
	chargeID, ok2 := pathID(r, "charge_id")
	if !ok1 || !ok2 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeResult(w, oh.svc.Orders.ToggleCharge(r.Context(), orderID, chargeID))
}

func (oh *OrderHandler) SelectOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "order_id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeResult(w, oh.svc.Orders.SelectActiveOrder(r.Context(), orderID))
}

func (oh *OrderHandler) DeleteOrders(w http.ResponseWriter, r *http.Request) {
	var req domain.DeleteOrdersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	writeResult(w, oh.svc.Orders.DeleteOrders(r.Context(), req.IDs))
}

func (oh *OrderHandler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "order_id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	writeResult(w, oh.svc.Orders.CompleteCheckout(r.Context(), orderID))
}

// Multi-select endpoints mutate session-local state only.

func (oh *OrderHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "order_id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	oh.svc.Selection.Toggle(orderID)
	writeResult(w, domain.OKResult("selection updated"))
}

func (oh *OrderHandler) SelectAll(w http.ResponseWriter, r *http.Request) {
	groups, err := oh.svc.Orders.ListOrders(r.Context(), filterFromQuery(r))
	if err != nil {
		oh.log.Error("select all failed", zap.Error(err))
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	var visible []int64
	for _, g := range groups {
		for _, a := range g.Orders {
			visible = append(visible, a.Order.ID)
		}
	}
	oh.svc.Selection.SelectAll(visible)
	writeResult(w, domain.OKResult("all visible orders selected"))
}

func (oh *OrderHandler) Deselect(w http.ResponseWriter, r *http.Request) {
	oh.svc.Selection.Deselect()
	writeResult(w, domain.OKResult("selection cleared"))
}

func (oh *OrderHandler) DeleteSelected(w http.ResponseWriter, r *http.Request) {
	writeResult(w, oh.svc.Orders.DeleteSelected(r.Context()))
}

func filterFromQuery(r *http.Request) domain.ListFilter {
	return domain.ListFilter{
		Filter:  r.URL.Query().Get("filter"),
		ViewAll: r.URL.Query().Get("view_all") == "true",
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeResult(w http.ResponseWriter, res domain.Result) {
	status := http.StatusOK
	if !res.OK {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
