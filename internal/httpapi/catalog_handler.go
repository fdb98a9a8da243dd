package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ljcl79/shophub/internal/catalog"
	"github.com/ljcl79/shophub/internal/domain"
	"github.com/ljcl79/shophub/internal/query"
)

type CatalogHandler struct {
	store *catalog.Store
	log   *zap.Logger
}

func NewCatalogHandler(store *catalog.Store, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{store: store, log: log}
}

type ProductsResponse struct {
	State    string           `json:"state"`
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

// List serves the catalog through the query pipeline. While the catalog is
// still loading the response says so instead of pretending to be empty.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	switch h.store.State() {
	case catalog.StateError:
		respondError(w, h.log, http.StatusBadGateway, "catalog_unavailable", h.store.Err().Error())
		return
	case catalog.StateIdle, catalog.StateLoading:
		respondJSON(w, h.log, http.StatusOK, ProductsResponse{
			State:    string(h.store.State()),
			Products: []domain.Product{},
		})
		return
	}

	q := r.URL.Query()
	products := query.Apply(h.store.Products(), query.Options{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	})

	respondJSON(w, h.log, http.StatusOK, ProductsResponse{
		State:    string(catalog.StateReady),
		Products: products,
		Count:    len(products),
	})
}

// Get serves a single product by its route id.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.store.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, h.log, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, product)
}

// Categories serves the fetched category list.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.log, http.StatusOK, h.store.Categories())
}
