// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/okian/triago/internal/domain/model"
)

// maxPatientAge rejects implausible ages before they reach the rule engine.
const maxPatientAge = 150

// TriageHandler handles triage classification requests.
type TriageHandler struct {
	deps Dependencies
}

// NewTriageHandler creates a new triage handler.
func NewTriageHandler(deps Dependencies) *TriageHandler {
	return &TriageHandler{deps: deps}
}

// triageRequest mirrors the request schema for POST /triage.
type triageRequest struct {
	Symptoms string            `json:"symptoms"`
	Age      int               `json:"age"`
	Pregnant bool              `json:"pregnant"`
	Context  map[string]string `json:"context,omitempty"`
}

func (t triageRequest) validate() error {
	switch {
	case t.Age < 0:
		return errors.New("age must not be negative")
	case t.Age > maxPatientAge:
		return errors.New("age out of range")
	}
	return nil
}

// HandlePostTriage handles POST /triage requests.
func (h *TriageHandler) HandlePostTriage(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_triage"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req triageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	verdict, err := h.deps.ClassifyTriage(r.Context(), model.TriageRequest{
		Symptoms: req.Symptoms,
		Age:      req.Age,
		Pregnant: req.Pregnant,
		Context:  req.Context,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}
