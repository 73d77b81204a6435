package httpapi

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
	"github.com/vladislavdragonenkov/siproad-orders/internal/service/catalog"
)

// Handler отдаёт операции каталога по HTTP.
type Handler struct {
	products  catalog.ProductAPI
	companies catalog.CompanyAPI
}

// NewHandler создаёт HTTP-обработчики каталога.
func NewHandler(products catalog.ProductAPI, companies catalog.CompanyAPI) *Handler {
	return &Handler{products: products, companies: companies}
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var dto domain.ProductDTO
	if err := decodeBody(r, &dto); err != nil {
		writeResponse(w, failed(err))
		return
	}
	result, err := h.products.UpdateProduct(r.Context(), dto)
	if err != nil {
		writeResponse(w, failed(err))
		return
	}
	writeResponse(w, executed([]domain.ProductDTO{result}))
}

func (h *Handler) findProducts(w http.ResponseWriter, r *http.Request) {
	companyID := mux.Vars(r)["companyId"]
	if err := requireUUID(companyID); err != nil {
		writeResponse(w, failed(err))
		return
	}
	pagination, err := parsePagination(r)
	if err != nil {
		writeResponse(w, failed(err))
		return
	}
	input, err := parseSearchInput(r)
	if err != nil {
		writeResponse(w, failed(err))
		return
	}

	list, err := h.products.FindProducts(r.Context(), companyID, pagination, input)
	if err != nil {
		writeResponse(w, failed(err))
		return
	}
	writeResponse(w, executed(list))
}

func (h *Handler) findOneProductByValue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := requireUUID(vars["companyId"]); err != nil {
		writeResponse(w, failed(err))
		return
	}
	list, err := h.products.FindOneProductByValue(r.Context(), vars["companyId"], vars["value"])
	if err != nil {
		writeResponse(w, failed(err))
		return
	}
	writeResponse(w, executed(list))
}

func (h *Handler) removeProduct(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.products.RemoveProduct)
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	var dto domain.CompanyDTO
	if err := decodeBody(r, &dto); err != nil {
		writeResponse(w, failed(err))
		return
	}
	result, err := h.companies.UpdateCompany(r.Context(), dto)
	if err != nil {
		writeResponse(w, failed(err))
		return
	}
	writeResponse(w, executed([]domain.CompanyDTO{result}))
}

func (h *Handler) findCompanies(w http.ResponseWriter, r *http.Request) {
	pagination, err := parsePagination(r)
	if err != nil {
		writeResponse(w, failed(err))
		return
	}
	input, err := parseSearchInput(r)
	if err != nil {
		writeResponse(w, failed(err))
		return
	}

	list, err := h.companies.FindCompanies(r.Context(), pagination, input)
	if err != nil {
		writeResponse(w, failed(err))
		return
	}
	writeResponse(w, executed(list))
}

func (h *Handler) findOneCompanyByValue(w http.ResponseWriter, r *http.Request) {
	list, err := h.companies.FindOneCompanyByValue(r.Context(), mux.Vars(r)["value"])
	if err != nil {
		writeResponse(w, failed(err))
		return
	}
	writeResponse(w, executed(list))
}

func (h *Handler) removeCompany(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.companies.RemoveCompany)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, remove func(ctx context.Context, id string) (string, error)) {
	id := mux.Vars(r)["id"]
	if err := requireUUID(id); err != nil {
		writeResponse(w, failed(err))
		return
	}
	msg, err := remove(r.Context(), id)
	if err != nil {
		writeResponse(w, failed(err))
		return
	}
	writeResponse(w, Response{Status: http.StatusOK, Message: msg, Data: []any{}})
}
