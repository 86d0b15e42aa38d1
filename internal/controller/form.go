package controller

import (
	"errors"

	"github.com/fonotrack/fonotrack/internal/gateway"
)

// FormState is the lifecycle state of a form controller.
type FormState int

const (
	// StateUninitialized is the zero value before New* runs.
	StateUninitialized FormState = iota
	// StateEditing accepts field mutations and submit attempts. A failed
	// submit returns here with a "submit"-keyed error set.
	StateEditing
	// StateSubmitting has a persistence call in flight; further submits are
	// no-ops until it resolves.
	StateSubmitting
	// StateSucceeded means the record was persisted and the save/close
	// callbacks have fired.
	StateSucceeded
)

func (s FormState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	default:
		return "uninitialized"
	}
}

// ErrValidation reports that a submit was blocked by field validation; the
// per-field messages are available from Errors().
var ErrValidation = errors.New("el formulario tiene errores de validación")

// SubmitErrorKey is the map key under which a failed persistence call's
// message is surfaced.
const SubmitErrorKey = "submit"

// genericSubmitMessages are shown when the backend gave no usable message.
const (
	genericPatientSubmitMsg    = "Error al guardar el paciente. Por favor, intenta nuevamente."
	genericEvaluationSubmitMsg = "Error al guardar la evaluación. Por favor, intenta nuevamente."
)

// submitMessage picks the error text surfaced on a failed submit: the
// server-supplied message verbatim when present, the generic fallback
// otherwise.
func submitMessage(err error, fallback string) string {
	if msg, ok := gateway.ServerMessage(err); ok {
		return msg
	}
	return fallback
}

// copyErrors clones an error map so callers cannot mutate controller state.
func copyErrors(errs map[string]string) map[string]string {
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
