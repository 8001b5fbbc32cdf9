package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/inkpaper/atelier-api/internal/domain/product"
)

type productResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         string  `json:"price"`
	Category      string  `json:"category"`
	Size          *string `json:"size,omitempty"`
	PaperType     *string `json:"paperType,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
	StockQuantity int     `json:"stockQuantity"`
	IsAvailable   bool    `json:"isAvailable"`
	CreatedAt     string  `json:"createdAt"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price.StringFixed(2),
		Category:      p.Category,
		Size:          p.Size,
		PaperType:     p.PaperType,
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
		IsAvailable:   p.IsAvailable,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}
