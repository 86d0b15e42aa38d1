package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fonotrack/fonotrack/internal/gateway"
	"github.com/fonotrack/fonotrack/internal/model"
)

// fakePatientWriter counts persistence calls and lets tests stall or fail
// them.
type fakePatientWriter struct {
	mu          sync.Mutex
	createCalls int
	updateCalls int
	lastDraft   model.PatientDraft
	lastID      string

	err   error
	block chan struct{} // when non-nil, calls wait until closed
}

func (f *fakePatientWriter) CreatePatient(ctx context.Context, d model.PatientDraft) (*model.Patient, error) {
	f.mu.Lock()
	f.createCalls++
	f.lastDraft = d
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &model.Patient{ID: "new-id", FirstName: d.FirstName, LastName: d.LastName}, nil
}

func (f *fakePatientWriter) UpdatePatient(ctx context.Context, id string, d model.PatientDraft) (*model.Patient, error) {
	f.mu.Lock()
	f.updateCalls++
	f.lastID = id
	f.lastDraft = d
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &model.Patient{ID: id, FirstName: d.FirstName}, nil
}

func (f *fakePatientWriter) creates() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls
}

func fillValidPatient(f *PatientForm) {
	f.Set("firstName", "Juan")
	f.Set("lastName", "Pérez")
	f.Set("dateOfBirth", "2016-03-12")
	f.Set("reasonForConsult", "Dificultades de expresión verbal")
}

func TestPatientFormCreateSubmit(t *testing.T) {
	gw := &fakePatientWriter{}
	form := NewPatientForm(gw, nil)

	var saved, closed bool
	form.OnSave(func() { saved = true })
	form.OnClose(func() { closed = true })

	fillValidPatient(form)
	if err := form.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if form.State() != StateSucceeded {
		t.Errorf("state = %v, want succeeded", form.State())
	}
	if gw.creates() != 1 || gw.updateCalls != 0 {
		t.Errorf("creates=%d updates=%d, want 1/0", gw.creates(), gw.updateCalls)
	}
	if !saved || !closed {
		t.Errorf("callbacks: saved=%v closed=%v, want both", saved, closed)
	}
}

func TestPatientFormEditSubmitUsesUpdate(t *testing.T) {
	gw := &fakePatientWriter{}
	existing := &model.Patient{
		ID:               "p1",
		FirstName:        "María",
		LastName:         "García",
		DateOfBirth:      "2017-08-02T00:00:00Z",
		ReasonForConsult: "Tartamudez",
	}
	form := NewPatientForm(gw, existing)

	// The draft is populated from the record with the date reduced.
	if got := form.Draft().DateOfBirth; got != "2017-08-02" {
		t.Errorf("draft date = %q, want date-only", got)
	}

	if err := form.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if gw.updateCalls != 1 || gw.lastID != "p1" {
		t.Errorf("updates=%d id=%q, want 1/p1", gw.updateCalls, gw.lastID)
	}
	if gw.creates() != 0 {
		t.Errorf("creates=%d, want 0", gw.creates())
	}
}

func TestPatientFormValidationBlocksSubmit(t *testing.T) {
	gw := &fakePatientWriter{}
	form := NewPatientForm(gw, nil)

	err := form.Submit(context.Background())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if gw.creates() != 0 {
		t.Errorf("gateway reached despite validation failure")
	}
	if form.State() != StateEditing {
		t.Errorf("state = %v, want editing", form.State())
	}
	if form.Errors()["firstName"] == "" {
		t.Errorf("expected a firstName error, got %v", form.Errors())
	}
}

func TestPatientFormSetClearsOnlyThatError(t *testing.T) {
	form := NewPatientForm(&fakePatientWriter{}, nil)
	form.Submit(context.Background()) // populate errors

	form.Set("firstName", "Juan")
	errs := form.Errors()
	if errs["firstName"] != "" {
		t.Errorf("firstName error not cleared: %v", errs)
	}
	if errs["lastName"] == "" {
		t.Errorf("lastName error was cleared too: %v", errs)
	}
}

// Exactly one persistence call is made under a double submit.
func TestPatientFormDoubleSubmit(t *testing.T) {
	gw := &fakePatientWriter{block: make(chan struct{})}
	form := NewPatientForm(gw, nil)
	fillValidPatient(form)

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()

	// Wait until the first submit is in flight.
	for form.State() != StateSubmitting {
		time.Sleep(time.Millisecond)
	}

	if err := form.Submit(context.Background()); err != nil {
		t.Fatalf("second submit should be a no-op, got %v", err)
	}

	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if gw.creates() != 1 {
		t.Fatalf("creates=%d, want exactly 1", gw.creates())
	}
}

func TestPatientFormServerMessageSurfaced(t *testing.T) {
	gw := &fakePatientWriter{err: &gateway.APIError{
		StatusCode: 400,
		Message:    "El nombre y el apellido son requeridos",
	}}
	form := NewPatientForm(gw, nil)
	fillValidPatient(form)

	if err := form.Submit(context.Background()); err == nil {
		t.Fatal("expected an error")
	}
	if form.State() != StateEditing {
		t.Errorf("state = %v, want editing", form.State())
	}
	if got := form.Errors()[SubmitErrorKey]; got != "El nombre y el apellido son requeridos" {
		t.Errorf("submit error = %q, want the server message verbatim", got)
	}
}

func TestPatientFormGenericMessageOnTransportFailure(t *testing.T) {
	gw := &fakePatientWriter{err: &gateway.TransportError{Op: "POST /pacientes", Err: errors.New("refused")}}
	form := NewPatientForm(gw, nil)
	fillValidPatient(form)

	form.Submit(context.Background())
	if got := form.Errors()[SubmitErrorKey]; got != "Error al guardar el paciente. Por favor, intenta nuevamente." {
		t.Errorf("submit error = %q, want the generic fallback", got)
	}
}

// A cancelled context means the form was torn down mid-flight; the outcome is
// discarded and no callbacks fire.
func TestPatientFormCancelledContext(t *testing.T) {
	gw := &fakePatientWriter{}
	form := NewPatientForm(gw, nil)
	fillValidPatient(form)

	fired := false
	form.OnSave(func() { fired = true })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := form.Submit(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if form.State() == StateSucceeded {
		t.Error("state advanced despite cancelled context")
	}
	if fired {
		t.Error("onSave fired despite cancelled context")
	}
}

func TestPatientFormUnknownFieldIgnored(t *testing.T) {
	form := NewPatientForm(&fakePatientWriter{}, nil)
	before := form.Draft()
	form.Set("documentNumber", "123") // not an editable field
	if form.Draft() != before {
		t.Errorf("unknown field mutated the draft")
	}
}
