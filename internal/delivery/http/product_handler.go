package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"trendscout-backend/internal/domain"
)

type ProductHandler struct {
	products  domain.ProductRepository
	snapshots domain.SnapshotRepository
}

func NewProductHandler(products domain.ProductRepository, snapshots domain.SnapshotRepository) *ProductHandler {
	return &ProductHandler{
		products:  products,
		snapshots: snapshots,
	}
}

// HandleTrending serves the trending product list with optional
// category / trend_category / min_score filters.
func (h *ProductHandler) HandleTrending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := domain.TrendingQuery{
		Category:      r.URL.Query().Get("category"),
		TrendCategory: domain.TrendCategory(r.URL.Query().Get("trend_category")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	if v := r.URL.Query().Get("min_score"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinScore = f
		}
	}

	products, err := h.products.GetTrendingProducts(r.Context(), q)
	if err != nil {
		http.Error(w, "Failed to load trending products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}

// HandleGetProduct serves one product with its snapshot history.
func (h *ProductHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}
	if product == nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	snapshots, err := h.snapshots.GetSnapshots(r.Context(), id, 7)
	if err != nil {
		snapshots = []domain.ProductSnapshot{}
	}

	detail := domain.ProductDetail{
		Product:   *product,
		Snapshots: snapshots,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// HandleSearch serves a title search.
func (h *ProductHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	term := r.URL.Query().Get("q")
	if term == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	products, err := h.products.SearchProducts(r.Context(), term, limit)
	if err != nil {
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
}
