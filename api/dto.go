/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. Rules travel as
  factory.RuleJSON so the API, the database and YAML files share one schema.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rule.go: RuleJSON type
*/
package api

import (
	"github.com/warp/recurrence/factory"
)

// =============================================================================
// RANGES
// =============================================================================

// ParseRangeRequest is the request to parse a single range or value.
type ParseRangeRequest struct {
	Input      string `json:"input"`
	Candidates []int  `json:"candidates,omitempty"`
}

// RangeDTO describes a parsed range or value.
type RangeDTO struct {
	Input    string       `json:"input"`
	Kind     string       `json:"kind"` // range, value
	Start    *int         `json:"start,omitempty"`
	End      *int         `json:"end,omitempty"`
	Value    *int         `json:"value,omitempty"`
	Text     string       `json:"text"`
	Contains map[int]bool `json:"contains,omitempty"`
}

// =============================================================================
// RULES
// =============================================================================

// RuleRequest carries a rule document (validate and create).
type RuleRequest struct {
	Config factory.RuleJSON `json:"config"`
}

// ValidateRuleResponse is returned for a rule that passed validation.
type ValidateRuleResponse struct {
	Valid  bool             `json:"valid"`
	Config factory.RuleJSON `json:"config"`
}

// ViolationDTO is one failed consistency check.
type ViolationDTO struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RuleDTO represents a stored rule in API responses.
type RuleDTO struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Config    factory.RuleJSON `json:"config"`
	Version   int              `json:"version"`
	CreatedAt string           `json:"created_at,omitempty"`
	UpdatedAt string           `json:"updated_at,omitempty"`
}

// MatchResponse reports whether a rule matches an instant.
type MatchResponse struct {
	ID      string `json:"id"`
	At      string `json:"at"`
	Matches bool   `json:"matches"`
}

// =============================================================================
// PRESETS
// =============================================================================

// PresetDTO is a preset expanded at a given dtstart.
type PresetDTO struct {
	Name   string           `json:"name"`
	Config factory.RuleJSON `json:"config"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
