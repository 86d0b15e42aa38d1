// Package model declares the wire records FonoTrack exchanges with the clinic
// backend, together with the in-progress draft forms of those records. Dates
// travel as strings because the backend emits a mix of YYYY-MM-DD and RFC3339
// values; DateOnly reduces either form to calendar-date granularity.
package model

import "strings"

// Patient is a patient record as persisted by the remote store.
type Patient struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"`
	DocumentNumber   string `json:"documentNumber,omitempty"`
	Diagnosis        string `json:"diagnosis,omitempty"`
	ReasonForConsult string `json:"reasonForConsult"`
	GeneralNotes     string `json:"generalNotes,omitempty"`
	IsActive         bool   `json:"isActive"`
	AdmissionDate    string `json:"admissionDate,omitempty"`
	UpdatedAt        string `json:"updatedAt,omitempty"`
}

// FullName returns "FirstName LastName" for display and search.
func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PatientDraft carries the editable fields of a patient form. DocumentNumber
// is deliberately absent: it appears on the wire model for search purposes but
// is not part of the editable form in the current revision.
type PatientDraft struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DateOfBirth      string `json:"dateOfBirth"`
	Diagnosis        string `json:"diagnosis"`
	ReasonForConsult string `json:"reasonForConsult"`
	GeneralNotes     string `json:"generalNotes"`
}

// DraftFromPatient initializes a draft from an existing record, reducing the
// birth date to calendar-date granularity.
func DraftFromPatient(p Patient) PatientDraft {
	return PatientDraft{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		DateOfBirth:      DateOnly(p.DateOfBirth),
		Diagnosis:        p.Diagnosis,
		ReasonForConsult: p.ReasonForConsult,
		GeneralNotes:     p.GeneralNotes,
	}
}

// DateOnly strips any time-of-day component from a wire date, so both
// "2015-01-01" and "2015-01-01T00:00:00Z" become "2015-01-01".
func DateOnly(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}
