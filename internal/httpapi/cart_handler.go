package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ljcl79/shophub/internal/cart"
	"github.com/ljcl79/shophub/internal/catalog"
)

// maxLineQuantity bounds a single request; the ledger itself only enforces
// the >= 1 invariant.
const maxLineQuantity = 99

type CartHandler struct {
	ledger  *cart.Ledger
	catalog *catalog.Store
	log     *zap.Logger
}

func NewCartHandler(ledger *cart.Ledger, store *catalog.Store, log *zap.Logger) *CartHandler {
	return &CartHandler{ledger: ledger, catalog: store, log: log}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// Get returns the current cart snapshot with totals.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.log, http.StatusOK, h.ledger.Snapshot())
}

// AddItem resolves the product in the catalog and adds it to the ledger.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, h.log, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity < 1 || req.Quantity > maxLineQuantity {
		respondError(w, h.log, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.GetByID(strconv.FormatInt(req.ProductID, 10))
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	if err := h.ledger.AddItem(*product, req.Quantity); err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusCreated, h.ledger.Snapshot())
}

// UpdateQuantity overwrites a line's quantity; zero removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_product_id", "product_id must be numeric")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > maxLineQuantity {
		respondError(w, h.log, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	if err := h.ledger.SetQuantity(productID, req.Quantity); err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, h.ledger.Snapshot())
}

// RemoveItem drops a line from the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil {
		respondError(w, h.log, http.StatusBadRequest, "invalid_product_id", "product_id must be numeric")
		return
	}

	if err := h.ledger.RemoveItem(productID); err != nil {
		handleDomainError(w, h.log, err)
		return
	}

	respondJSON(w, h.log, http.StatusOK, h.ledger.Snapshot())
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.ledger.Clear()
	respondJSON(w, h.log, http.StatusOK, h.ledger.Snapshot())
}
