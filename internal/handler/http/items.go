package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/acidvertigo/cart/internal/domain"
	"github.com/acidvertigo/cart/pkg/validator"
)

// AddItemRequest is the JSON request body for adding an item to an instance.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=500"`
	SKU       string `json:"sku" validate:"required"`
	Price     int64  `json:"price" validate:"required,gte=0"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	ImageURL  string `json:"image_url"`
}

// UpdateQuantityRequest is the JSON request body for updating an item's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// AddItem handles POST /api/v1/instances/{id}/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	inst, err := h.manager.Instance(instanceID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req AddItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	item := domain.CartItem{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Name:      req.Name,
		SKU:       req.SKU,
		Price:     req.Price,
		Quantity:  req.Quantity,
		ImageURL:  req.ImageURL,
	}

	if err := inst.Cart.AddItem(item); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: instanceView(inst)})
}

// UpdateItemQuantity handles PUT /api/v1/instances/{id}/items/{productId}/{variantId}
func (h *Handler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	inst, err := h.manager.Instance(instanceID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	productID := chi.URLParam(r, "productId")
	variantID := chi.URLParam(r, "variantId")

	var req UpdateQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	found, err := inst.Cart.SetItemQuantity(productID, variantID, req.Quantity)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, response{
			Error: &errorResponse{Code: "NOT_FOUND", Message: "item not found in cart"},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: instanceView(inst)})
}

// RemoveItem handles DELETE /api/v1/instances/{id}/items/{productId}/{variantId}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	inst, err := h.manager.Instance(instanceID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	productID := chi.URLParam(r, "productId")
	variantID := chi.URLParam(r, "variantId")

	if !inst.Cart.RemoveItem(productID, variantID) {
		writeJSON(w, http.StatusNotFound, response{
			Error: &errorResponse{Code: "NOT_FOUND", Message: "item not found in cart"},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: instanceView(inst)})
}
