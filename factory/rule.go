/*
Package factory converts rule documents to and from rrule values.

PURPOSE:
  Rules arrive as JSON (API, database) or YAML (files checked into a repo).
  The factory is the only place text becomes an RRule, so every rule built
  from a document starts out as RRule[core.Unvalidated] and has to pass
  rrule.Validate before anything can evaluate or store it.

DOCUMENT SCHEMA:
  {
    "id": "payroll",
    "name": "Payroll days",
    "freq": "MONTHLY",
    "interval": 1,
    "dtstart": "2025-01-01T09:00:00Z",
    "until": "2026-01-01T00:00:00Z",
    "tzid": "Europe/Paris",
    "wkst": "MO",
    "by_month_day": ["15", "-1"],
    "by_weekday": ["MO", "-1FR"],
    "by_hour": ["9-17"]
  }

  Numeric BY* entries are strings in the core.Parse form: "3", "3-5", "-1".
  Times are RFC 3339 with optional fractional seconds; a bare date
  ("2025-01-01") is read as midnight. tzid names the IANA zone dtstart and
  until are evaluated in, so a 09:00 rule stays at 09:00 across DST changes.
  Without tzid times keep the offset they were written with, and bare dates
  are UTC.

USAGE:
  f := factory.NewRuleFactory()

  doc, err := f.ParseRule(jsonString)     // RRule[core.Unvalidated]
  rule, err := rrule.Validate(doc.Rule)   // RRule[core.Validated]

  // or both at once
  rule, err := f.Build(rj)

SEE ALSO:
  - core/parse.go: Range and value syntax
  - rrule/validate.go: Checks applied by Build
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/warp/recurrence/core"
	"github.com/warp/recurrence/rrule"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// RuleJSON is the document form of a rule.
type RuleJSON struct {
	ID         string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty"`
	Freq       string   `json:"freq" yaml:"freq"`
	Interval   *int     `json:"interval,omitempty" yaml:"interval,omitempty"` // Default 1
	Count      *uint32  `json:"count,omitempty" yaml:"count,omitempty"`
	Until      string   `json:"until,omitempty" yaml:"until,omitempty"`
	DtStart    string   `json:"dtstart" yaml:"dtstart"`
	TZID       string   `json:"tzid,omitempty" yaml:"tzid,omitempty"`
	WeekStart  string   `json:"wkst,omitempty" yaml:"wkst,omitempty"` // Default MO
	ByMonth    []string `json:"by_month,omitempty" yaml:"by_month,omitempty"`
	ByMonthDay []string `json:"by_month_day,omitempty" yaml:"by_month_day,omitempty"`
	ByYearDay  []string `json:"by_year_day,omitempty" yaml:"by_year_day,omitempty"`
	ByWeekNo   []string `json:"by_week_no,omitempty" yaml:"by_week_no,omitempty"`
	ByWeekday  []string `json:"by_weekday,omitempty" yaml:"by_weekday,omitempty"`
	ByHour     []string `json:"by_hour,omitempty" yaml:"by_hour,omitempty"`
	ByMinute   []string `json:"by_minute,omitempty" yaml:"by_minute,omitempty"`
	BySecond   []string `json:"by_second,omitempty" yaml:"by_second,omitempty"`
	BySetPos   []string `json:"by_set_pos,omitempty" yaml:"by_set_pos,omitempty"`
}

// Document is a decoded rule that has not been validated yet.
type Document struct {
	ID   string
	Name string
	Rule rrule.RRule[core.Unvalidated]
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrInvalidDocument is returned when the document itself cannot be decoded.
var ErrInvalidDocument = errors.New("invalid rule document")

// FieldError locates a decoding failure. Index is the list position for
// BY* fields and -1 for scalar fields.
type FieldError struct {
	Field string
	Index int
	Err   error
}

func (e *FieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s[%d]: %v", e.Field, e.Index, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IsClientError returns true if err was caused by the document content.
func IsClientError(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe) ||
		errors.Is(err, ErrInvalidDocument) ||
		rrule.IsClientError(err) ||
		core.IsClientError(err)
}

// =============================================================================
// RULE FACTORY
// =============================================================================

// RuleFactory converts documents to rules.
type RuleFactory struct {
	// NewID generates IDs for documents that carry none.
	NewID func() string
}

// NewRuleFactory creates a factory that assigns random UUIDs.
func NewRuleFactory() *RuleFactory {
	return &RuleFactory{NewID: uuid.NewString}
}

// ParseRule decodes a JSON document.
func (f *RuleFactory) ParseRule(jsonStr string) (*Document, error) {
	var rj RuleJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return f.FromJSON(rj)
}

// ParseRuleYAML decodes a YAML document with the same schema.
func (f *RuleFactory) ParseRuleYAML(yamlStr string) (*Document, error) {
	var rj RuleJSON
	if err := yaml.Unmarshal([]byte(yamlStr), &rj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return f.FromJSON(rj)
}

// ParseRulesYAML decodes a stream of YAML documents separated by "---".
func (f *RuleFactory) ParseRulesYAML(r io.Reader) ([]*Document, error) {
	dec := yaml.NewDecoder(r)

	var docs []*Document
	for i := 0; ; i++ {
		var rj RuleJSON
		err := dec.Decode(&rj)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %v", ErrInvalidDocument, i, err)
		}
		doc, err := f.FromJSON(rj)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
}

// FromJSON converts a document to an unvalidated rule. It only checks
// syntax; consistency is left to rrule.Validate.
func (f *RuleFactory) FromJSON(rj RuleJSON) (*Document, error) {
	freq, err := rrule.ParseFrequency(rj.Freq)
	if err != nil {
		return nil, &FieldError{Field: "freq", Index: -1, Err: err}
	}

	loc := time.UTC
	if rj.TZID != "" {
		if loc, err = time.LoadLocation(rj.TZID); err != nil {
			return nil, &FieldError{Field: "tzid", Index: -1, Err: fmt.Errorf("%w: unknown zone %q", ErrInvalidDocument, rj.TZID)}
		}
	}

	var dtStart time.Time
	if rj.DtStart != "" {
		if dtStart, err = parseTime(rj.DtStart, loc, rj.TZID != ""); err != nil {
			return nil, &FieldError{Field: "dtstart", Index: -1, Err: err}
		}
	}

	rule := rrule.New(freq, dtStart)

	if rj.Interval != nil {
		rule = rule.WithInterval(*rj.Interval)
	}
	if rj.Count != nil {
		rule = rule.WithCount(*rj.Count)
	}
	if rj.Until != "" {
		until, err := parseTime(rj.Until, loc, rj.TZID != "")
		if err != nil {
			return nil, &FieldError{Field: "until", Index: -1, Err: err}
		}
		rule = rule.WithUntil(until)
	}
	if rj.WeekStart != "" {
		wd, err := rrule.ParseWeekday(rj.WeekStart)
		if err != nil {
			return nil, &FieldError{Field: "wkst", Index: -1, Err: err}
		}
		rule = rule.WithWeekStart(wd)
	}

	fields := []struct {
		name  string
		items []string
		apply func(r rrule.RRule[core.Unvalidated], v ...core.RangeOrValue[int]) rrule.RRule[core.Unvalidated]
	}{
		{"by_month", rj.ByMonth, rrule.RRule[core.Unvalidated].WithByMonth},
		{"by_month_day", rj.ByMonthDay, rrule.RRule[core.Unvalidated].WithByMonthDay},
		{"by_year_day", rj.ByYearDay, rrule.RRule[core.Unvalidated].WithByYearDay},
		{"by_week_no", rj.ByWeekNo, rrule.RRule[core.Unvalidated].WithByWeekNo},
		{"by_hour", rj.ByHour, rrule.RRule[core.Unvalidated].WithByHour},
		{"by_minute", rj.ByMinute, rrule.RRule[core.Unvalidated].WithByMinute},
		{"by_second", rj.BySecond, rrule.RRule[core.Unvalidated].WithBySecond},
		{"by_set_pos", rj.BySetPos, rrule.RRule[core.Unvalidated].WithBySetPos},
	}
	for _, fd := range fields {
		if len(fd.items) == 0 {
			continue
		}
		list, err := parseField(fd.name, fd.items)
		if err != nil {
			return nil, err
		}
		rule = fd.apply(rule, list...)
	}

	if len(rj.ByWeekday) > 0 {
		days := make([]rrule.NWeekday, 0, len(rj.ByWeekday))
		for i, s := range rj.ByWeekday {
			wd, err := rrule.ParseNWeekday(s)
			if err != nil {
				return nil, &FieldError{Field: "by_weekday", Index: i, Err: err}
			}
			days = append(days, wd)
		}
		rule = rule.WithByWeekday(days...)
	}

	id := rj.ID
	if id == "" && f.NewID != nil {
		id = f.NewID()
	}

	return &Document{ID: id, Name: rj.Name, Rule: rule}, nil
}

// Build decodes and validates in one step.
func (f *RuleFactory) Build(rj RuleJSON) (rrule.RRule[core.Validated], error) {
	doc, err := f.FromJSON(rj)
	if err != nil {
		return rrule.RRule[core.Validated]{}, err
	}
	return rrule.Validate(doc.Rule)
}

// ToJSON encodes a validated rule for storage.
func (f *RuleFactory) ToJSON(id, name string, r rrule.RRule[core.Validated]) RuleJSON {
	return Encode(id, name, r)
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode converts a rule at any stage back to its document form. Decoding
// the result yields a rule that matches the same dates.
func Encode[S core.Stage](id, name string, r rrule.RRule[S]) RuleJSON {
	interval := r.Interval()
	rj := RuleJSON{
		ID:         id,
		Name:       name,
		Freq:       r.Freq().String(),
		Interval:   &interval,
		WeekStart:  rrule.WeekdayCode(r.WeekStart()),
		ByMonth:    formatField(r.ByMonth()),
		ByMonthDay: formatField(r.ByMonthDay()),
		ByYearDay:  formatField(r.ByYearDay()),
		ByWeekNo:   formatField(r.ByWeekNo()),
		ByHour:     formatField(r.ByHour()),
		ByMinute:   formatField(r.ByMinute()),
		BySecond:   formatField(r.BySecond()),
		BySetPos:   formatField(r.BySetPos()),
	}

	if !r.DtStart().IsZero() {
		rj.DtStart = r.DtStart().Format(time.RFC3339Nano)
		rj.TZID = zoneID(r.DtStart().Location())
	}
	if c, ok := r.Count(); ok {
		rj.Count = &c
	}
	if u, ok := r.Until(); ok {
		rj.Until = u.Format(time.RFC3339Nano)
	}
	for _, wd := range r.ByWeekday() {
		rj.ByWeekday = append(rj.ByWeekday, wd.String())
	}
	return rj
}

// MarshalYAML renders a document as YAML.
func MarshalYAML(rj RuleJSON) (string, error) {
	out, err := yaml.Marshal(rj)
	if err != nil {
		return "", fmt.Errorf("failed to encode rule YAML: %w", err)
	}
	return string(out), nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

// parseTime reads RFC 3339 or a bare date in loc. inZone moves an RFC 3339
// instant into loc; otherwise it keeps its written offset.
func parseTime(s string, loc *time.Location, inZone bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		if inZone {
			t = t.In(loc)
		}
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: time %q is neither RFC 3339 nor YYYY-MM-DD", ErrInvalidDocument, s)
	}
	return t, nil
}

// zoneID returns the IANA name of loc, or "" when the written offset is
// enough: UTC, and fixed zones that LoadLocation cannot find by name.
func zoneID(loc *time.Location) string {
	name := loc.String()
	if loc == time.UTC || name == "UTC" || name == "" {
		return ""
	}
	if _, err := time.LoadLocation(name); err != nil {
		return ""
	}
	return name
}

func parseField(name string, items []string) (rrule.Field, error) {
	out := make(rrule.Field, 0, len(items))
	for i, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, &FieldError{Field: name, Index: i, Err: &core.ParseError{Input: s, Err: core.ErrEmptyListItem}}
		}
		rv, err := core.ParseInt[int](s)
		if err != nil {
			return nil, &FieldError{Field: name, Index: i, Err: err}
		}
		out = append(out, rv)
	}
	return out, nil
}

// maxExpandedRange bounds how many members a negative range is written as.
const maxExpandedRange = 366

// formatField writes each entry in core.Parse form. "-3--1" has no such form
// because the scalar-first split cannot read it, so ranges with a negative
// start are written as their individual members.
func formatField(list rrule.Field) []string {
	var out []string
	for _, rv := range list {
		lo, hi := core.Bounds(rv)
		if rv.IsRange() && lo < 0 && hi-lo <= maxExpandedRange {
			for n := lo; n <= hi; n++ {
				out = append(out, core.NewValue(n).String())
			}
			continue
		}
		out = append(out, rv.String())
	}
	return out
}
