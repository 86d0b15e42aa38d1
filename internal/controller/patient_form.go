package controller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fonotrack/fonotrack/internal/model"
	"github.com/fonotrack/fonotrack/internal/validate"
)

// PatientForm runs the create/edit lifecycle of a patient record.
type PatientForm struct {
	mu     sync.Mutex
	state  FormState
	draft  model.PatientDraft
	errors map[string]string

	// recordID is empty in create mode.
	recordID string

	gw  PatientWriter
	now func() time.Time
	log zerolog.Logger

	onSave  func()
	onClose func()
}

// PatientFormOption configures a PatientForm.
type PatientFormOption func(*PatientForm)

// PatientFormClock overrides the form's notion of "now" (validation reference
// time).
func PatientFormClock(now func() time.Time) PatientFormOption {
	return func(f *PatientForm) { f.now = now }
}

// PatientFormLogger sets the form's logger.
func PatientFormLogger(log zerolog.Logger) PatientFormOption {
	return func(f *PatientForm) { f.log = log }
}

// NewPatientForm opens a patient form. With a non-nil existing record the
// draft is populated from it (edit mode); otherwise the form starts blank
// (create mode).
func NewPatientForm(gw PatientWriter, existing *model.Patient, opts ...PatientFormOption) *PatientForm {
	f := &PatientForm{
		state:  StateEditing,
		errors: make(map[string]string),
		gw:     gw,
		now:    time.Now,
		log:    zerolog.Nop(),
	}
	if existing != nil {
		f.recordID = existing.ID
		f.draft = model.DraftFromPatient(*existing)
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// OnSave registers the callback fired after a successful submit, before
// OnClose. The parent uses it to reload its list.
func (f *PatientForm) OnSave(fn func()) { f.mu.Lock(); f.onSave = fn; f.mu.Unlock() }

// OnClose registers the callback that dismisses the form after a successful
// submit.
func (f *PatientForm) OnClose(fn func()) { f.mu.Lock(); f.onClose = fn; f.mu.Unlock() }

// State returns the current lifecycle state.
func (f *PatientForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns a copy of the current draft.
func (f *PatientForm) Draft() model.PatientDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Errors returns a copy of the current field errors.
func (f *PatientForm) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errors)
}

// Set mutates one draft field and clears that field's validation error.
// Other fields are not re-validated; validation is deferred to Submit.
// Unknown field names are ignored.
func (f *PatientForm) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case "firstName":
		f.draft.FirstName = value
	case "lastName":
		f.draft.LastName = value
	case "dateOfBirth":
		f.draft.DateOfBirth = value
	case "diagnosis":
		f.draft.Diagnosis = value
	case "reasonForConsult":
		f.draft.ReasonForConsult = value
	case "generalNotes":
		f.draft.GeneralNotes = value
	default:
		return
	}
	delete(f.errors, field)
}

// Submit validates the draft and persists it. On validation failure the form
// stays in Editing with the field errors set and ErrValidation is returned.
// On persistence failure the form returns to Editing with a submit-scoped
// message and stays open. While a submit is in flight, further calls are
// no-ops. A cancelled context never mutates form state.
func (f *PatientForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil
	}
	if errs := validate.Patient(f.draft, f.now()); len(errs) > 0 {
		f.errors = errs
		f.mu.Unlock()
		return ErrValidation
	}
	f.state = StateSubmitting
	f.errors = make(map[string]string)
	draft := f.draft
	id := f.recordID
	f.mu.Unlock()

	var err error
	if id == "" {
		_, err = f.gw.CreatePatient(ctx, draft)
	} else {
		_, err = f.gw.UpdatePatient(ctx, id, draft)
	}

	f.mu.Lock()
	if ctx.Err() != nil {
		// The form was torn down while the call was outstanding; do not
		// apply the result.
		f.state = StateEditing
		f.mu.Unlock()
		return ctx.Err()
	}
	if err != nil {
		f.log.Error().Err(err).Str("patient_id", id).Msg("saving patient failed")
		f.state = StateEditing
		f.errors[SubmitErrorKey] = submitMessage(err, genericPatientSubmitMsg)
		f.mu.Unlock()
		return err
	}
	f.state = StateSucceeded
	onSave, onClose := f.onSave, f.onClose
	f.mu.Unlock()

	if onSave != nil {
		onSave()
	}
	if onClose != nil {
		onClose()
	}
	return nil
}
