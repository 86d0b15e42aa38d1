package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fonotrack/fonotrack/internal/gateway"
	"github.com/fonotrack/fonotrack/internal/model"
)

// fakeDetailGateway backs the patient detail controller.
type fakeDetailGateway struct {
	patient     *model.Patient
	patientErr  error
	evaluations []model.Evaluation
	evalErr     error
	documents   []model.Document
	docErr      error
	contents    []byte
	downloadErr error
	deleteErr   error

	getCalls    int
	deleteCalls int
}

func (f *fakeDetailGateway) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	f.getCalls++
	if f.patientErr != nil {
		return nil, f.patientErr
	}
	cp := *f.patient
	return &cp, nil
}

func (f *fakeDetailGateway) ListPatients(ctx context.Context) ([]model.Patient, error) {
	if f.patient == nil {
		return nil, nil
	}
	return []model.Patient{*f.patient}, nil
}

func (f *fakeDetailGateway) ListEvaluations(ctx context.Context) ([]model.Evaluation, error) {
	return f.evaluations, f.evalErr
}

func (f *fakeDetailGateway) ListEvaluationsByPatient(ctx context.Context, patientID string) ([]model.Evaluation, error) {
	return f.evaluations, f.evalErr
}

func (f *fakeDetailGateway) ListDocumentsByPatient(ctx context.Context, patientID string) ([]model.Document, error) {
	return f.documents, f.docErr
}

func (f *fakeDetailGateway) DownloadDocument(ctx context.Context, id string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return f.contents, nil
}

func (f *fakeDetailGateway) DeleteEvaluation(ctx context.Context, id string) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeDetailGateway) DeleteDocument(ctx context.Context, id string) error {
	f.deleteCalls++
	return f.deleteErr
}

func TestPatientDetailLoad(t *testing.T) {
	gw := &fakeDetailGateway{
		patient:     &model.Patient{ID: "p1", FirstName: "Juan", LastName: "Pérez"},
		evaluations: []model.Evaluation{{ID: "e1", PatientID: "p1"}},
		documents:   []model.Document{{ID: "d1", PatientID: "p1", FileName: "informe.pdf"}},
	}
	detail := NewPatientDetail(gw, zerolog.Nop())

	detail.Load(context.Background(), "p1")

	if p := detail.Patient(); p == nil || p.ID != "p1" {
		t.Fatalf("patient = %+v", p)
	}
	if detail.NotFound() {
		t.Error("NotFound set for an existing patient")
	}
	if len(detail.Evaluations()) != 1 || len(detail.Documents()) != 1 {
		t.Errorf("evals=%d docs=%d, want 1/1", len(detail.Evaluations()), len(detail.Documents()))
	}
}

func TestPatientDetailNotFound(t *testing.T) {
	gw := &fakeDetailGateway{patientErr: gateway.ErrNotFound}
	detail := NewPatientDetail(gw, zerolog.Nop())

	detail.Load(context.Background(), "missing")

	if !detail.NotFound() {
		t.Fatal("expected NotFound")
	}
	if detail.Patient() != nil {
		t.Fatal("expected a nil patient")
	}
}

// An unreachable backend is a load failure, not a "record does not exist".
func TestPatientDetailTransportFailureIsNotNotFound(t *testing.T) {
	gw := &fakeDetailGateway{patientErr: &gateway.TransportError{Op: "GET", Err: errors.New("refused")}}
	detail := NewPatientDetail(gw, zerolog.Nop())

	detail.Load(context.Background(), "p1")

	if detail.NotFound() {
		t.Fatal("transport failure flagged as not-found")
	}
}

// Evaluation and document load failures degrade to empty lists without
// blanking the patient record.
func TestPatientDetailPartialDegradation(t *testing.T) {
	gw := &fakeDetailGateway{
		patient: &model.Patient{ID: "p1", FirstName: "Juan"},
		evalErr: errors.New("down"),
		docErr:  errors.New("down"),
	}
	detail := NewPatientDetail(gw, zerolog.Nop())

	detail.Load(context.Background(), "p1")

	if detail.Patient() == nil {
		t.Fatal("patient lost to sibling load failures")
	}
	if len(detail.Evaluations()) != 0 || len(detail.Documents()) != 0 {
		t.Error("expected empty lists")
	}
}

func TestPatientDetailDeleteEvaluationReloads(t *testing.T) {
	gw := &fakeDetailGateway{
		patient:     &model.Patient{ID: "p1"},
		evaluations: []model.Evaluation{{ID: "e1", PatientID: "p1"}},
	}
	detail := NewPatientDetail(gw, zerolog.Nop())
	detail.Load(context.Background(), "p1")
	before := gw.getCalls

	alert, err := detail.DeleteEvaluation(context.Background(), "p1", "e1", confirmAlways)
	if alert != "" || err != nil {
		t.Fatalf("DeleteEvaluation: alert=%q err=%v", alert, err)
	}
	if gw.deleteCalls != 1 {
		t.Errorf("delete calls = %d", gw.deleteCalls)
	}
	if gw.getCalls != before+1 {
		t.Error("detail not reloaded after delete")
	}
}

func TestPatientDetailDeleteWithoutConfirmation(t *testing.T) {
	gw := &fakeDetailGateway{patient: &model.Patient{ID: "p1"}}
	detail := NewPatientDetail(gw, zerolog.Nop())

	if _, err := detail.DeleteDocument(context.Background(), "p1", "d1", confirmNever); err != nil {
		t.Fatalf("unconfirmed delete: %v", err)
	}
	if gw.deleteCalls != 0 {
		t.Fatal("gateway reached without confirmation")
	}
}

func TestPatientDetailDownload(t *testing.T) {
	gw := &fakeDetailGateway{contents: []byte("%PDF-1.4")}
	detail := NewPatientDetail(gw, zerolog.Nop())

	data, alert, err := detail.Download(context.Background(), "d1")
	if err != nil || alert != "" {
		t.Fatalf("Download: alert=%q err=%v", alert, err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("contents = %q", data)
	}
}

func TestPatientDetailDownloadFailure(t *testing.T) {
	gw := &fakeDetailGateway{downloadErr: errors.New("410")}
	detail := NewPatientDetail(gw, zerolog.Nop())

	_, alert, err := detail.Download(context.Background(), "d1")
	if err == nil {
		t.Fatal("expected an error")
	}
	if alert != "Error al descargar el documento" {
		t.Fatalf("alert = %q", alert)
	}
}
