package http

import (
	"net/http"
	"sort"
	"time"

	"github.com/acidvertigo/cart/internal/domain"
	"github.com/acidvertigo/cart/internal/manager"
	"github.com/acidvertigo/cart/pkg/validator"
)

// --- Request DTOs ---

// CreateInstanceRequest is the JSON request body for creating a cart instance.
// Overwrite and SwitchContext default to true when omitted, matching the
// manager's zero-value options.
type CreateInstanceRequest struct {
	ID            string `json:"id" validate:"required,min=1,max=128"`
	Overwrite     *bool  `json:"overwrite"`
	SwitchContext *bool  `json:"switch_context"`
}

// --- Response DTOs ---

// InstanceListResponse is the payload for the instance listing.
type InstanceListResponse struct {
	IDs     []string `json:"ids"`
	Current string   `json:"current"`
}

// InstanceView is the JSON representation of one live instance.
type InstanceView struct {
	ID          string            `json:"id"`
	Currency    string            `json:"currency"`
	Items       []domain.CartItem `json:"items"`
	ItemCount   int               `json:"item_count"`
	TotalAmount int64             `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Storage     StorageView       `json:"storage"`
}

// StorageView describes the instance's persistence configuration.
type StorageView struct {
	Driver   string `json:"driver,omitempty"`
	Autosave bool   `json:"autosave"`
	Key      string `json:"key,omitempty"`
}

func instanceView(inst *manager.Instance) InstanceView {
	snap := inst.Cart.Export()
	sc := inst.Config.Storage()

	view := InstanceView{
		ID:          inst.ID,
		Currency:    snap.Cart.Currency,
		Items:       snap.Cart.Items,
		ItemCount:   snap.Cart.ItemCount(),
		TotalAmount: snap.Cart.TotalAmount(),
		CreatedAt:   snap.Cart.CreatedAt,
		UpdatedAt:   snap.Cart.UpdatedAt,
		Storage: StorageView{
			Driver:   sc.Driver,
			Autosave: sc.Autosave,
		},
	}
	if sc.Driver != "" {
		view.Storage.Key = sc.KeyPrefix + inst.ID + sc.KeySuffix
	}
	return view
}

// --- Handlers ---

// ListInstances handles GET /api/v1/instances
func (h *Handler) ListInstances(w http.ResponseWriter, r *http.Request) {
	ids := h.manager.IDs()
	sort.Strings(ids)

	writeJSON(w, http.StatusOK, response{Data: InstanceListResponse{
		IDs:     ids,
		Current: h.manager.Current(),
	}})
}

// CreateInstance handles POST /api/v1/instances
func (h *Handler) CreateInstance(w http.ResponseWriter, r *http.Request) {
	var req CreateInstanceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	opts := manager.InstanceOptions{}
	if req.Overwrite != nil && !*req.Overwrite {
		opts.NoOverwrite = true
	}
	if req.SwitchContext != nil && !*req.SwitchContext {
		opts.KeepCurrent = true
	}

	inst, err := h.manager.NewInstance(r.Context(), req.ID, opts)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: instanceView(inst)})
}

// GetInstance handles GET /api/v1/instances/{id}
func (h *Handler) GetInstance(w http.ResponseWriter, r *http.Request) {
	inst, err := h.manager.Instance(instanceID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: instanceView(inst)})
}

// DestroyInstance handles DELETE /api/v1/instances/{id}
func (h *Handler) DestroyInstance(w http.ResponseWriter, r *http.Request) {
	clearStorage := r.URL.Query().Get("clear_storage") != "false"

	if err := h.manager.Destroy(r.Context(), instanceID(r), clearStorage); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "destroyed"}})
}

// SaveInstance handles POST /api/v1/instances/{id}/save
func (h *Handler) SaveInstance(w http.ResponseWriter, r *http.Request) {
	inst, err := h.manager.Instance(instanceID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.manager.SaveState(r.Context(), inst.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "saved"}})
}

// RestoreInstance handles POST /api/v1/instances/{id}/restore
func (h *Handler) RestoreInstance(w http.ResponseWriter, r *http.Request) {
	inst, err := h.manager.Instance(instanceID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.manager.RestoreState(r.Context(), inst.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: instanceView(inst)})
}

// ClearInstanceStorage handles POST /api/v1/instances/{id}/clear
func (h *Handler) ClearInstanceStorage(w http.ResponseWriter, r *http.Request) {
	inst, err := h.manager.Instance(instanceID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.manager.ClearState(r.Context(), inst.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "cleared"}})
}
