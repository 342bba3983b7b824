package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pos-engine/internal/domain"
	"pos-engine/internal/repository"
)

// CatalogHandler seeds and lists the reference tables. Listing feeds the
// product grid in the UI; seeding exists so the engine runs standalone.
type CatalogHandler struct {
	catalog repository.CatalogRepositoryInterface
	log     *zap.Logger
}

func NewCatalogHandler(catalog repository.CatalogRepositoryInterface, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

type catalogResponse struct {
	Products []domain.Product   `json:"products"`
	AddOns   []domain.AddOnItem `json:"addons"`
	Charges  []domain.Charge    `json:"charges"`
}

func (ch *CatalogHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	products, err := ch.catalog.ListProducts(ctx)
	if err != nil {
		ch.log.Error("list products failed", zap.Error(err))
		http.Error(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}
	addOns, err := ch.catalog.ListAddOns(ctx)
	if err != nil {
		ch.log.Error("list add-ons failed", zap.Error(err))
		http.Error(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}
	charges, err := ch.catalog.ListCharges(ctx)
	if err != nil {
		ch.log.Error("list charges failed", zap.Error(err))
		http.Error(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{Products: products, AddOns: addOns, Charges: charges})
}

func (ch *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	id, err := ch.catalog.CreateProduct(r.Context(), p)
	if err != nil {
		ch.log.Error("create product failed", zap.Error(err))
		http.Error(w, "failed to create product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (ch *CatalogHandler) CreateAddOn(w http.ResponseWriter, r *http.Request) {
	var a domain.AddOnItem
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	id, err := ch.catalog.CreateAddOn(r.Context(), a)
	if err != nil {
		ch.log.Error("create add-on failed", zap.Error(err))
		http.Error(w, "failed to create add-on", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (ch *CatalogHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	var c domain.Charge
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	id, err := ch.catalog.CreateCharge(r.Context(), c)
	if err != nil {
		ch.log.Error("create charge failed", zap.Error(err))
		http.Error(w, "failed to create charge", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (ch *CatalogHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	id, err := ch.catalog.CreateCustomer(r.Context(), c)
	if err != nil {
		ch.log.Error("create customer failed", zap.Error(err))
		http.Error(w, "failed to create customer", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (ch *CatalogHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var a domain.Address
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	id, err := ch.catalog.CreateAddress(r.Context(), a)
	if err != nil {
		ch.log.Error("create address failed", zap.Error(err))
		http.Error(w, "failed to create address", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}
