package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/abgdnv/glowcart/internal/catalog"
	"github.com/abgdnv/glowcart/internal/service"
)

// FindAll lists the catalog in ascending code order. When any of the
// category, subCategory, skinType or range query parameters is present, all
// four are required and only exact matches are returned.
func (a *API) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	q := r.URL.Query()
	if !q.Has("category") && !q.Has("subCategory") && !q.Has("skinType") && !q.Has("range") {
		list := a.catalog.All(r.Context())
		mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
		respondJSON(w, mLogger, http.StatusOK, list)
		return
	}

	filter := service.FilterDto{
		Category:    q.Get("category"),
		SubCategory: q.Get("subCategory"),
		SkinType:    q.Get("skinType"),
		Range:       q.Get("range"),
	}
	if !a.valid(w, r, mLogger, &filter) {
		return
	}
	list := a.catalog.Filtered(r.Context(), filter)
	mLogger.DebugContext(r.Context(), "Successfully retrieved filtered product list", "count", len(list), "filter", filter)
	respondJSON(w, mLogger, http.StatusOK, list)
}

// FindByCode retrieves a product by its code.
func (a *API) FindByCode(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	code, ok := parseCode(w, r, mLogger)
	if !ok {
		return
	}
	found, err := a.catalog.Find(r.Context(), code)
	if err != nil {
		respondServiceError(w, r, mLogger, err, fmt.Sprintf("Failed to retrieve product with code %d", code))
		return
	}
	respondJSON(w, mLogger, http.StatusOK, found)
}

// Create adds a product to the catalog.
func (a *API) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	var dto service.ProductDto
	if !a.decodeValid(w, r, mLogger, &dto) {
		return
	}
	created, err := a.catalog.Add(r.Context(), dto)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "code", created.Code, "name", created.Name)
	respondJSON(w, mLogger, http.StatusCreated, created)
}

// Update replaces every field of a product but its code.
func (a *API) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	code, ok := parseCode(w, r, mLogger)
	if !ok {
		return
	}
	var dto service.ProductDto
	if !a.decodeValid(w, r, mLogger, &dto) {
		return
	}
	dto.Code = code
	updated, err := a.catalog.Update(r.Context(), dto)
	if err != nil {
		respondServiceError(w, r, mLogger, err, fmt.Sprintf("Failed to update product with code %d", code))
		return
	}
	respondJSON(w, mLogger, http.StatusOK, updated)
}

// UpdateQuantity sets the stock level of a product.
func (a *API) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	code, ok := parseCode(w, r, mLogger)
	if !ok {
		return
	}
	var dto service.QuantityDto
	if !a.decodeValid(w, r, mLogger, &dto) {
		return
	}
	updated, err := a.catalog.UpdateQuantity(r.Context(), code, dto.Quantity)
	if err != nil {
		respondServiceError(w, r, mLogger, err, fmt.Sprintf("Failed to update quantity of product with code %d", code))
		return
	}
	respondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByCode removes a product from the catalog.
func (a *API) DeleteByCode(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(r, a)
	code, ok := parseCode(w, r, mLogger)
	if !ok {
		return
	}
	if err := a.catalog.Remove(r.Context(), code); err != nil {
		respondServiceError(w, r, mLogger, err, fmt.Sprintf("Failed to delete product with code %d", code))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "code", code)
	w.WriteHeader(http.StatusNoContent)
}

// parseCode extracts the product code from the request path.
func parseCode(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int, bool) {
	raw := r.PathValue("code")
	code, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid product code: %s", raw))
		return 0, false
	}
	return code, true
}

type categoryDto struct {
	Name          string   `json:"name"`
	SubCategories []string `json:"subCategories"`
}

type classificationsDto struct {
	Categories []categoryDto `json:"categories"`
	SkinTypes  []string      `json:"skinTypes"`
	Ranges     []string      `json:"ranges"`
}

// Classifications lists the values a product may be classified with.
func (a *API) Classifications(w http.ResponseWriter, r *http.Request) {
	out := classificationsDto{
		Categories: make([]categoryDto, 0, len(catalog.Categories)),
		SkinTypes:  catalog.SkinTypes,
		Ranges:     catalog.Ranges,
	}
	for _, c := range catalog.Categories {
		out.Categories = append(out.Categories, categoryDto{Name: c, SubCategories: catalog.SubCategories(c)})
	}
	respondJSON(w, loggerWithReqID(r, a), http.StatusOK, out)
}
