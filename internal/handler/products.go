package handler

import (
	"net/http"

	"github.com/endirim/backend/internal/domain/catalog"
)

type productDTO struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

func toProductDTO(p catalog.Product) productDTO {
	return productDTO{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price.InexactFloat64(),
		Image:    p.Image,
	}
}

// listProducts returns the full product catalog.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}

	dtos := make([]productDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}

	writeJSON(w, http.StatusOK, map[string]any{"products": dtos})
}
