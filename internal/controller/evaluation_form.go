package controller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fonotrack/fonotrack/internal/model"
	"github.com/fonotrack/fonotrack/internal/validate"
)

// EvaluationForm runs the create/edit lifecycle of an evaluation record.
type EvaluationForm struct {
	mu     sync.Mutex
	state  FormState
	draft  model.EvaluationDraft
	errors map[string]string

	// recordID is empty in create mode.
	recordID string
	// patientLocked is set when the form was opened from a patient's detail
	// page with the patient pre-bound; the field is then immutable.
	patientLocked bool

	// patients backs the patient select options.
	patients []model.Patient

	gw       EvaluationWriter
	patientG PatientReader
	now      func() time.Time
	log      zerolog.Logger

	onSave  func()
	onClose func()
}

// EvaluationFormOption configures an EvaluationForm.
type EvaluationFormOption func(*EvaluationForm)

// EvaluationFormClock overrides the form's notion of "now" (default
// evaluation date).
func EvaluationFormClock(now func() time.Time) EvaluationFormOption {
	return func(f *EvaluationForm) { f.now = now }
}

// EvaluationFormLogger sets the form's logger.
func EvaluationFormLogger(log zerolog.Logger) EvaluationFormOption {
	return func(f *EvaluationForm) { f.log = log }
}

// EvaluationFormPatient pre-binds the evaluation to a patient and locks the
// field for the session.
func EvaluationFormPatient(patientID string) EvaluationFormOption {
	return func(f *EvaluationForm) {
		if patientID == "" {
			return
		}
		f.draft.PatientID = patientID
		f.patientLocked = true
	}
}

// NewEvaluationForm opens an evaluation form. With a non-nil existing record
// the draft is populated from it; otherwise the draft starts with today's
// date and, if pre-bound, the caller-supplied patient.
func NewEvaluationForm(gw EvaluationWriter, patients PatientReader, existing *model.Evaluation, opts ...EvaluationFormOption) *EvaluationForm {
	f := &EvaluationForm{
		state:    StateEditing,
		errors:   make(map[string]string),
		gw:       gw,
		patientG: patients,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	if existing != nil {
		f.recordID = existing.ID
		f.draft = model.DraftFromEvaluation(*existing)
	}
	for _, o := range opts {
		o(f)
	}
	if existing == nil && f.draft.EvaluationDate == "" {
		f.draft.EvaluationDate = f.now().Format("2006-01-02")
	}
	return f
}

// OnSave registers the callback fired after a successful submit.
func (f *EvaluationForm) OnSave(fn func()) { f.mu.Lock(); f.onSave = fn; f.mu.Unlock() }

// OnClose registers the callback that dismisses the form after a successful
// submit.
func (f *EvaluationForm) OnClose(fn func()) { f.mu.Lock(); f.onClose = fn; f.mu.Unlock() }

// State returns the current lifecycle state.
func (f *EvaluationForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Draft returns a copy of the current draft.
func (f *EvaluationForm) Draft() model.EvaluationDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Errors returns a copy of the current field errors.
func (f *EvaluationForm) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyErrors(f.errors)
}

// PatientLocked reports whether the patient field is immutable this session.
func (f *EvaluationForm) PatientLocked() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.patientLocked
}

// LoadPatients fetches the patient list backing the patient select. A load
// failure is logged and leaves the options empty; the form stays usable.
func (f *EvaluationForm) LoadPatients(ctx context.Context) {
	patients, err := f.patientG.ListPatients(ctx)
	if err != nil {
		f.log.Error().Err(err).Msg("loading patients for evaluation form failed")
		return
	}
	f.mu.Lock()
	if ctx.Err() == nil {
		f.patients = patients
	}
	f.mu.Unlock()
}

// Patients returns the loaded patient select options.
func (f *EvaluationForm) Patients() []model.Patient {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Patient(nil), f.patients...)
}

// Set mutates one draft field and clears that field's validation error.
// Setting a locked patientId is a no-op, as are unknown field names.
func (f *EvaluationForm) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case "patientId":
		if f.patientLocked {
			return
		}
		f.draft.PatientID = value
	case "evaluationDate":
		f.draft.EvaluationDate = value
	case "voiceQuality":
		f.draft.VoiceQuality = value
	case "voiceIntensity":
		f.draft.VoiceIntensity = value
	case "voiceNotes":
		f.draft.VoiceNotes = value
	case "comprehension":
		f.draft.Comprehension = value
	case "expression":
		f.draft.Expression = value
	case "languageNotes":
		f.draft.LanguageNotes = value
	case "hearingResult":
		f.draft.HearingResult = value
	case "hearingNotes":
		f.draft.HearingNotes = value
	case "oralPhase":
		f.draft.OralPhase = value
	case "pharyngealPhase":
		f.draft.PharyngealPhase = value
	case "swallowingNotes":
		f.draft.SwallowingNotes = value
	case "generalObservations":
		f.draft.GeneralObservations = value
	case "recommendations":
		f.draft.Recommendations = value
	default:
		return
	}
	delete(f.errors, field)
}

// Submit validates the draft and persists it. Semantics mirror
// PatientForm.Submit: validation failures and persistence failures both leave
// the form in Editing, in-flight submits make further calls no-ops, and a
// cancelled context never mutates form state.
func (f *EvaluationForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil
	}
	if errs := validate.Evaluation(f.draft); len(errs) > 0 {
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
		_, err = f.gw.CreateEvaluation(ctx, draft)
	} else {
		_, err = f.gw.UpdateEvaluation(ctx, id, draft)
	}

	f.mu.Lock()
	if ctx.Err() != nil {
		f.state = StateEditing
		f.mu.Unlock()
		return ctx.Err()
	}
	if err != nil {
		f.log.Error().Err(err).Str("evaluation_id", id).Msg("saving evaluation failed")
		f.state = StateEditing
		f.errors[SubmitErrorKey] = submitMessage(err, genericEvaluationSubmitMsg)
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
