// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/spinwin-backend/internal/errors"
	"github.com/unclebandit/spinwin-backend/internal/service"
)

// MaskedPin replaces a configured PIN in every response.
const MaskedPin = "****"

// CampaignHandler serves the read side of the campaign API
type CampaignHandler struct {
	Service *service.CampaignService
}

func NewCampaignHandler(svc *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{Service: svc}
}

// GetCampaign returns the snapshot with its report
func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteView(w, http.StatusOK, v)
}

func (h *CampaignHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, v.Report)
}

// Mask hides the PIN code of a view before it leaves the server.
func Mask(v service.CampaignView) service.CampaignView {
	if v.Campaign.Configuration.PinCode != "" {
		v.Campaign.Configuration.PinCode = MaskedPin
	}
	return v
}

func WriteView(w http.ResponseWriter, status int, v service.CampaignView) {
	WriteJSON(w, status, Mask(v))
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("failed to write response")
	}
}

type errorBody struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Invariant string `json:"invariant,omitempty"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch {
	case appErrors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case appErrors.IsInvariant(err):
		return http.StatusConflict
	case appErrors.IsStorage(err):
		return http.StatusServiceUnavailable
	case appErrors.IsNotFound(err):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	body := errorBody{Error: err.Error()}

	var v *appErrors.ValidationError
	var inv *appErrors.InvariantViolation
	switch {
	case errors.As(err, &v):
		body.Field = v.Field
	case errors.As(err, &inv):
		body.Invariant = inv.Invariant
	}

	entry := logrus.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
	WriteJSON(w, status, body)
}

// BadRequest answers a body that could not be decoded.
func BadRequest(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body: " + err.Error()})
}
