// Package validate holds the pure form-validation rules for patient and
// evaluation drafts. Each validator maps a draft to field-name→message errors;
// an empty map means the draft is submit-eligible. Messages are the Spanish
// strings rendered beside the form fields.
package validate

import (
	"strings"
	"time"

	"github.com/fonotrack/fonotrack/internal/model"
)

// Field error messages.
const (
	MsgFirstNameRequired    = "El nombre es requerido"
	MsgLastNameRequired     = "El apellido es requerido"
	MsgBirthDateRequired    = "La fecha de nacimiento es requerida"
	MsgBirthDateFuture      = "La fecha de nacimiento no puede ser futura"
	MsgReasonRequired       = "El motivo de consulta es requerido"
	MsgPatientRequired      = "Selecciona un paciente"
	MsgEvalDateRequired     = "La fecha de evaluación es requerida"
	MsgObservationsRequired = "Las observaciones generales son requeridas"
)

// dateLayouts are the wire date forms the backend is known to emit.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate parses a wire date in any known layout.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Patient validates a patient draft against the reference time now.
// Diagnosis and general notes are optional and never validated.
func Patient(d model.PatientDraft, now time.Time) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(d.FirstName) == "" {
		errs["firstName"] = MsgFirstNameRequired
	}
	if strings.TrimSpace(d.LastName) == "" {
		errs["lastName"] = MsgLastNameRequired
	}
	if d.DateOfBirth == "" {
		errs["dateOfBirth"] = MsgBirthDateRequired
	} else if birth, ok := ParseDate(d.DateOfBirth); ok && birth.After(now) {
		errs["dateOfBirth"] = MsgBirthDateFuture
	}
	if strings.TrimSpace(d.ReasonForConsult) == "" {
		errs["reasonForConsult"] = MsgReasonRequired
	}

	return errs
}

// Evaluation validates an evaluation draft. The assessment fields are
// unconstrained: an empty value means "not evaluated", not a failure.
func Evaluation(d model.EvaluationDraft) map[string]string {
	errs := make(map[string]string)

	if d.PatientID == "" {
		errs["patientId"] = MsgPatientRequired
	}
	if d.EvaluationDate == "" {
		errs["evaluationDate"] = MsgEvalDateRequired
	}
	if strings.TrimSpace(d.GeneralObservations) == "" {
		errs["generalObservations"] = MsgObservationsRequired
	}

	return errs
}
