/*
handlers.go - HTTP API handlers for recurrence rules

PURPOSE:
  Exposes range parsing, rule validation, rule storage, matching and presets
  via REST API. Handles HTTP request/response, JSON serialization, and
  delegates to the core, rrule and factory packages.

ENDPOINTS:
  Ranges:
    POST   /api/ranges/parse           Parse "3" or "3-5", test candidates

  Rules:
    POST   /api/rules/validate         Validate a rule document
    GET    /api/rules                  List stored rules
    POST   /api/rules                  Validate and store a rule
    GET    /api/rules/{id}             Get a stored rule
    DELETE /api/rules/{id}             Delete a stored rule
    GET    /api/rules/{id}/matches     Does ?at=<RFC 3339> match?

  Presets:
    GET    /api/presets                List preset names
    GET    /api/presets/{name}         Expand a preset at ?dtstart=

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed input (bad JSON, bad range syntax, bad field)
  - 404: Rule or preset not found
  - 422: Rule is well formed but inconsistent (list of violations)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/warp/recurrence/core"
	"github.com/warp/recurrence/factory"
	"github.com/warp/recurrence/rrule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   rrule.Store
	Factory *factory.RuleFactory
	Logger  *log.Logger

	// Now is the clock used for preset defaults.
	Now func() time.Time
}

// NewHandler creates a new handler with the given store. A nil logger
// discards output.
func NewHandler(store rrule.Store, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{
		Store:   store,
		Factory: factory.NewRuleFactory(),
		Logger:  logger,
		Now:     time.Now,
	}
}

// LoadRules reads every stored rule, which re-validates each one, and
// returns how many there are.
func (h *Handler) LoadRules(ctx context.Context) (int, error) {
	defs, err := h.Store.List(ctx)
	if err != nil {
		return 0, err
	}
	h.Logger.Info("rules loaded", "count", len(defs))
	return len(defs), nil
}

// ImportRules validates and saves decoded documents, stopping at the first
// failure.
func (h *Handler) ImportRules(ctx context.Context, docs []*factory.Document) error {
	for _, doc := range docs {
		rule, err := rrule.Validate(doc.Rule)
		if err != nil {
			return fmt.Errorf("rule %s: %w", doc.ID, err)
		}
		if err := h.Store.Save(ctx, rrule.Definition{ID: doc.ID, Name: doc.Name, Rule: rule}); err != nil {
			return fmt.Errorf("rule %s: %w", doc.ID, err)
		}
		h.Logger.Debug("rule imported", "id", doc.ID)
	}
	return nil
}

// =============================================================================
// RANGE HANDLERS
// =============================================================================

// ParseRange parses a single range or value and tests the candidates.
func (h *Handler) ParseRange(w http.ResponseWriter, r *http.Request) {
	var req ParseRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rv, err := core.ParseInt[int](req.Input)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "Invalid range", core.ErrorCode(err), err)
		return
	}

	dto := RangeDTO{Input: req.Input, Text: rv.String()}
	switch x := rv.(type) {
	case core.Range[int]:
		dto.Kind = "range"
		dto.Start, dto.End = &x.Start, &x.End
	case core.Value[int]:
		dto.Kind = "value"
		dto.Value = &x.V
	}

	if len(req.Candidates) > 0 {
		dto.Contains = make(map[int]bool, len(req.Candidates))
		for _, c := range req.Candidates {
			dto.Contains[c] = rv.Contains(c)
		}
	}

	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// RULE HANDLERS
// =============================================================================

// ValidateRule checks a rule document without storing it.
func (h *Handler) ValidateRule(w http.ResponseWriter, r *http.Request) {
	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rule, err := h.Factory.Build(req.Config)
	if err != nil {
		h.writeRuleError(w, "Invalid rule", err)
		return
	}

	writeJSON(w, http.StatusOK, ValidateRuleResponse{
		Valid:  true,
		Config: h.Factory.ToJSON(req.Config.ID, req.Config.Name, rule),
	})
}

// ListRules returns all stored rules.
func (h *Handler) ListRules(w http.ResponseWriter, r *http.Request) {
	defs, err := h.Store.List(r.Context())
	if err != nil {
		h.writeRuleError(w, "Failed to list rules", err)
		return
	}

	dtos := make([]RuleDTO, len(defs))
	for i, def := range defs {
		dtos[i] = h.toRuleDTO(def)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateRule validates and stores a rule. A document without an id gets a
// generated one.
func (h *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req RuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	doc, err := h.Factory.FromJSON(req.Config)
	if err != nil {
		h.writeRuleError(w, "Invalid rule", err)
		return
	}
	rule, err := rrule.Validate(doc.Rule)
	if err != nil {
		h.writeRuleError(w, "Invalid rule", err)
		return
	}

	def := rrule.Definition{ID: doc.ID, Name: doc.Name, Rule: rule}
	if err := h.Store.Save(r.Context(), def); err != nil {
		h.writeRuleError(w, "Failed to create rule", err)
		return
	}

	saved, err := h.Store.Get(r.Context(), doc.ID)
	if err != nil {
		h.writeRuleError(w, "Failed to create rule", err)
		return
	}

	h.Logger.Info("rule saved", "id", saved.ID, "version", saved.Version)
	writeJSON(w, http.StatusCreated, h.toRuleDTO(*saved))
}

// GetRule returns a single rule.
func (h *Handler) GetRule(w http.ResponseWriter, r *http.Request) {
	def, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRuleError(w, "Failed to get rule", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toRuleDTO(*def))
}

// DeleteRule removes a rule.
func (h *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.Delete(r.Context(), id); err != nil {
		h.writeRuleError(w, "Failed to delete rule", err)
		return
	}

	h.Logger.Info("rule deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// RuleMatches reports whether the stored rule matches ?at=.
func (h *Handler) RuleMatches(w http.ResponseWriter, r *http.Request) {
	atParam := r.URL.Query().Get("at")
	if atParam == "" {
		writeError(w, http.StatusBadRequest, "Missing query parameter: at", nil)
		return
	}
	at, err := time.Parse(time.RFC3339, atParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at, expected RFC 3339", err)
		return
	}

	def, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeRuleError(w, "Failed to get rule", err)
		return
	}

	writeJSON(w, http.StatusOK, MatchResponse{
		ID:      def.ID,
		At:      at.Format(time.RFC3339Nano),
		Matches: rrule.Matches(def.Rule, at),
	})
}

// =============================================================================
// PRESET HANDLERS
// =============================================================================

// ListPresets returns the registered preset names.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rrule.Presets())
}

// GetPreset expands a preset at ?dtstart= (default: today, midnight UTC).
func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	dtStart := h.Now().UTC().Truncate(24 * time.Hour)
	if param := r.URL.Query().Get("dtstart"); param != "" {
		t, err := time.Parse(time.RFC3339, param)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid dtstart, expected RFC 3339", err)
			return
		}
		dtStart = t
	}

	rule, err := rrule.LookupPreset(name, dtStart)
	if err != nil {
		h.writeRuleError(w, "Unknown preset", err)
		return
	}
	validated, err := rrule.Validate(rule)
	if err != nil {
		h.writeRuleError(w, "Invalid preset", err)
		return
	}

	writeJSON(w, http.StatusOK, PresetDTO{
		Name:   name,
		Config: h.Factory.ToJSON("", name, validated),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) toRuleDTO(def rrule.Definition) RuleDTO {
	return RuleDTO{
		ID:        def.ID,
		Name:      def.Name,
		Config:    h.Factory.ToJSON(def.ID, def.Name, def.Rule),
		Version:   def.Version,
		CreatedAt: def.CreatedAt.Format(time.RFC3339),
		UpdatedAt: def.UpdatedAt.Format(time.RFC3339),
	}
}

// writeRuleError picks the status from the error's classification.
func (h *Handler) writeRuleError(w http.ResponseWriter, message string, err error) {
	if violations := rrule.ValidationErrors(err); len(violations) > 0 {
		dtos := make([]ViolationDTO, len(violations))
		for i, v := range violations {
			dtos[i] = ViolationDTO{Field: v.Field, Code: v.Code, Message: v.Message}
		}
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   message,
			Code:    "invalid_rule",
			Details: dtos,
		})
		return
	}

	var fe *factory.FieldError
	switch {
	case rrule.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case errors.As(err, &fe) && core.IsClientError(err):
		writeErrorCode(w, http.StatusBadRequest, message, core.ErrorCode(err), err)
	case factory.IsClientError(err):
		writeErrorCode(w, http.StatusBadRequest, message, "invalid_document", err)
	default:
		h.Logger.Error(message, "error", err)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeErrorCode(w, status, message, "", err)
}

func writeErrorCode(w http.ResponseWriter, status int, message, code string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
