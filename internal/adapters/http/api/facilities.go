// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/triago/internal/domain/model"
)

// FacilitiesHandler handles facility directory and routing requests.
type FacilitiesHandler struct {
	deps Dependencies
}

// NewFacilitiesHandler creates a new facilities handler.
func NewFacilitiesHandler(deps Dependencies) *FacilitiesHandler {
	return &FacilitiesHandler{deps: deps}
}

// rankRequest mirrors the request schema for POST /facilities/rank.
type rankRequest struct {
	Location model.Coordinate `json:"location"`
	Severity string           `json:"severity"`
}

func (r rankRequest) validate() error {
	switch {
	case !r.Location.Valid():
		return errors.New("location out of range")
	case trimmed(r.Severity) == "":
		return errors.New("missing severity")
	case !model.Severity(strings.ToUpper(trimmed(r.Severity))).Valid():
		return errors.New("severity must be RED, YELLOW, or GREEN")
	}
	return nil
}

func (r rankRequest) severity() model.Severity {
	return model.Severity(strings.ToUpper(trimmed(r.Severity)))
}

// facilityRequest mirrors the request schema for POST /facilities.
type facilityRequest struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Coordinates        model.Coordinate `json:"coordinates"`
	BaseWaitMinutes    float64          `json:"base_wait_minutes"`
	EmergencyCapacity  int              `json:"emergency_capacity"`
	CurrentQueueLength int              `json:"current_queue_length"`
}

func (f facilityRequest) validate() error {
	switch {
	case trimmed(f.ID) == "":
		return errors.New("missing id")
	case !f.Coordinates.Valid():
		return errors.New("coordinates out of range")
	case f.EmergencyCapacity <= 0:
		return errors.New("emergency_capacity must be positive")
	case f.CurrentQueueLength < 0:
		return errors.New("current_queue_length must not be negative")
	}
	return nil
}

// queueRequest mirrors the request schema for PUT /facilities/{id}/queue.
type queueRequest struct {
	QueueLength int `json:"queue_length"`
}

// HandleRank handles POST /facilities/rank requests.
func (h *FacilitiesHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.rank_facilities"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req rankRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.RankFacilities(r.Context(), req.Location, req.severity())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleFacilities handles GET and POST /facilities requests.
func (h *FacilitiesHandler) HandleFacilities(w http.ResponseWriter, r *http.Request) {
	const op = "api.facilities"
	switch r.Method {
	case http.MethodGet:
		facilities, err := h.deps.ListFacilities(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, facilities)

	case http.MethodPost:
		var req facilityRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		f := model.Facility{
			ID:                 trimmed(req.ID),
			Name:               req.Name,
			Coordinates:        req.Coordinates,
			BaseWaitMinutes:    req.BaseWaitMinutes,
			EmergencyCapacity:  req.EmergencyCapacity,
			CurrentQueueLength: req.CurrentQueueLength,
		}
		if err := h.deps.PutFacility(r.Context(), f); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeJSON(w, http.StatusCreated, f)

	default:
		http.NotFound(w, r)
	}
}

// HandleFacilityByID handles GET /facilities/{id} and PUT /facilities/{id}/queue.
func (h *FacilitiesHandler) HandleFacilityByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.facility_by_id"

	rest := strings.TrimPrefix(r.URL.Path, "/facilities/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}

	if id, ok := strings.CutSuffix(rest, "/queue"); ok {
		h.handleQueueUpdate(w, r, trimmed(id))
		return
	}

	if r.Method != http.MethodGet || strings.Contains(rest, "/") {
		http.NotFound(w, r)
		return
	}

	f, err := h.deps.GetFacility(r.Context(), trimmed(rest))
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FacilitiesHandler) handleQueueUpdate(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.update_queue"
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var req queueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.QueueLength < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("queue_length must not be negative")))
		return
	}

	if err := h.deps.SetQueueLength(r.Context(), id, req.QueueLength); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "queue_length": req.QueueLength})
}
