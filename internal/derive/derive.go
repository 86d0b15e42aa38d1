// Package derive computes the display-level fields the views need but the
// backend does not send: calendar age, per-area assessment classification,
// local search matching, and per-status counts.
package derive

import (
	"strings"
	"time"

	"github.com/fonotrack/fonotrack/internal/model"
	"github.com/fonotrack/fonotrack/internal/validate"
)

// AgeUnknown is returned when a birth date is missing or unparseable.
const AgeUnknown = -1

// Age computes whole calendar years between birthDate and asOf: the year
// difference, minus one when the birthday has not yet occurred in asOf's year.
func Age(birthDate string, asOf time.Time) int {
	if birthDate == "" {
		return AgeUnknown
	}
	birth, ok := validate.ParseDate(model.DateOnly(birthDate))
	if !ok {
		return AgeUnknown
	}

	age := asOf.Year() - birth.Year()
	if asOf.Month() < birth.Month() ||
		(asOf.Month() == birth.Month() && asOf.Day() < birth.Day()) {
		age--
	}
	return age
}

// AreaStatus classifies a single assessment-area value.
type AreaStatus string

const (
	AreaUnassessed     AreaStatus = "No evaluado"
	AreaNormal         AreaStatus = "Normal"
	AreaNeedsAttention AreaStatus = "Requiere atención"
)

// normalAreaValues are the form enum values displayed as "within normal
// limits". This is a closed heuristic over the known select options, not a
// clinical judgment: any other non-empty value is flagged for attention.
var normalAreaValues = map[string]bool{
	"Normal":    true,
	"Excelente": true,
	"Eficiente": true,
}

// ClassifyAreaStatus maps an assessment-area value to its display status.
func ClassifyAreaStatus(value string) AreaStatus {
	if value == "" {
		return AreaUnassessed
	}
	if normalAreaValues[value] {
		return AreaNormal
	}
	return AreaNeedsAttention
}

// MatchesSearch reports whether an evaluation matches a free-text query via
// its resolved patient: case-insensitive substring against the patient's
// first name, last name, and document number. An empty query matches
// everything; an evaluation whose patient cannot be resolved matches only the
// empty query.
func MatchesSearch(ev model.Evaluation, patients map[string]model.Patient, query string) bool {
	if query == "" {
		return true
	}
	p, ok := patients[ev.PatientID]
	if !ok {
		return false
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.FirstName), q) ||
		strings.Contains(strings.ToLower(p.LastName), q) ||
		(p.DocumentNumber != "" && strings.Contains(p.DocumentNumber, query))
}

// StatusCounts holds per-status evaluation tallies.
type StatusCounts struct {
	Completed int
	Pending   int
	Cancelled int
	Total     int
}

// CountByStatus tallies evaluations by status in a single pass. An absent
// status counts as COMPLETED, matching the display default.
func CountByStatus(evs []model.Evaluation) StatusCounts {
	var c StatusCounts
	for _, ev := range evs {
		switch ev.DisplayStatus() {
		case model.StatusPending:
			c.Pending++
		case model.StatusCancelled:
			c.Cancelled++
		default:
			c.Completed++
		}
		c.Total++
	}
	return c
}
