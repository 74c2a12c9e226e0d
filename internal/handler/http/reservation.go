package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ruzaikr/screencloud-takehome/internal/service"
	"github.com/ruzaikr/screencloud-takehome/pkg/httputil"
)

// ReservationHandler handles HTTP requests for feasibility checks. The
// endpoint is shaped as a reservation resource, but only the dry-run form
// (reserve=false) is implemented; creating real holds is done by external
// tooling.
type ReservationHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewReservationHandler creates a new reservation HTTP handler.
func NewReservationHandler(svc *service.OrderService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: svc,
		logger:  logger,
	}
}

// CheckFeasibility handles POST /api/v1/reservations?reserve=false
func (h *ReservationHandler) CheckFeasibility(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("reserve") == "true" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_INPUT",
				Message: "reserve=true is not supported; reservations are created by external tooling",
			},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if !validProductIDs(w, req.Items) {
		return
	}

	result, err := h.service.CheckFeasibility(r.Context(), req.toInput())
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
