package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fonotrack/fonotrack/internal/gateway"
	"github.com/fonotrack/fonotrack/internal/model"
)

const alertDownloadDocument = "Error al descargar el documento"
const promptDeleteDocument = "¿Estás seguro de que deseas eliminar este documento?"
const alertDeleteDocument = "Error al eliminar el documento"

// PatientDetailGateway is everything the patient detail page needs.
type PatientDetailGateway interface {
	PatientReader
	EvaluationReader
	EvaluationDeleter
	DocumentReader
	DocumentDeleter
}

// PatientDetail governs a single patient's page: the record itself plus its
// evaluations and documents, each loaded independently so one failure never
// blanks the others.
type PatientDetail struct {
	mu          sync.Mutex
	loading     bool
	patient     *model.Patient
	notFound    bool
	evaluations []model.Evaluation
	documents   []model.Document

	gw  PatientDetailGateway
	log zerolog.Logger
}

// NewPatientDetail creates the controller for a patient detail page.
func NewPatientDetail(gw PatientDetailGateway, log zerolog.Logger) *PatientDetail {
	return &PatientDetail{gw: gw, log: log}
}

// Load fetches the patient record and, in parallel, its evaluations and
// documents. A missing patient sets NotFound (rendered as a placeholder, not
// a page failure); evaluation or document load failures degrade to empty
// lists. A cancelled context never mutates state.
func (d *PatientDetail) Load(ctx context.Context, id string) {
	d.mu.Lock()
	if d.loading {
		d.mu.Unlock()
		return
	}
	d.loading = true
	d.mu.Unlock()

	var (
		wg      sync.WaitGroup
		patient *model.Patient
		patErr  error
		evs     []model.Evaluation
		evErr   error
		docs    []model.Document
		docErr  error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		patient, patErr = d.gw.GetPatient(ctx, id)
	}()
	go func() {
		defer wg.Done()
		evs, evErr = d.gw.ListEvaluationsByPatient(ctx, id)
	}()
	go func() {
		defer wg.Done()
		docs, docErr = d.gw.ListDocumentsByPatient(ctx, id)
	}()
	wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if ctx.Err() != nil {
		return
	}

	if patErr != nil {
		d.log.Error().Err(patErr).Str("patient_id", id).Msg("loading patient failed")
		d.patient = nil
		d.notFound = errors.Is(patErr, gateway.ErrNotFound)
	} else {
		d.patient = patient
		d.notFound = false
	}
	if evErr != nil {
		d.log.Error().Err(evErr).Str("patient_id", id).Msg("loading patient evaluations failed")
		d.evaluations = nil
	} else {
		d.evaluations = evs
	}
	if docErr != nil {
		d.log.Error().Err(docErr).Str("patient_id", id).Msg("loading patient documents failed")
		d.documents = nil
	} else {
		d.documents = docs
	}
}

// Loading reports whether a load is in flight.
func (d *PatientDetail) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Patient returns the loaded record, nil when missing or not yet loaded.
func (d *PatientDetail) Patient() *model.Patient {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.patient == nil {
		return nil
	}
	p := *d.patient
	return &p
}

// NotFound reports that the patient does not exist in the remote store.
func (d *PatientDetail) NotFound() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notFound
}

// Evaluations returns a copy of the patient's evaluations.
func (d *PatientDetail) Evaluations() []model.Evaluation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Evaluation(nil), d.evaluations...)
}

// Documents returns a copy of the patient's documents.
func (d *PatientDetail) Documents() []model.Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Document(nil), d.documents...)
}

// DeleteEvaluation removes one of the patient's evaluations after
// confirmation, then reloads the page data.
func (d *PatientDetail) DeleteEvaluation(ctx context.Context, patientID, evaluationID string, confirm ConfirmFunc) (string, error) {
	if confirm == nil || !confirm(promptDeleteEvaluation) {
		return "", nil
	}
	if err := d.gw.DeleteEvaluation(ctx, evaluationID); err != nil {
		d.log.Error().Err(err).Str("evaluation_id", evaluationID).Msg("deleting evaluation failed")
		return alertDeleteEvaluation, err
	}
	d.Load(ctx, patientID)
	return "", nil
}

// DeleteDocument removes one of the patient's documents after confirmation,
// then reloads the page data.
func (d *PatientDetail) DeleteDocument(ctx context.Context, patientID, documentID string, confirm ConfirmFunc) (string, error) {
	if confirm == nil || !confirm(promptDeleteDocument) {
		return "", nil
	}
	if err := d.gw.DeleteDocument(ctx, documentID); err != nil {
		d.log.Error().Err(err).Str("document_id", documentID).Msg("deleting document failed")
		return alertDeleteDocument, err
	}
	d.Load(ctx, patientID)
	return "", nil
}

// Download fetches a document's contents. On failure the alert message is
// returned alongside the error.
func (d *PatientDetail) Download(ctx context.Context, documentID string) ([]byte, string, error) {
	data, err := d.gw.DownloadDocument(ctx, documentID)
	if err != nil {
		d.log.Error().Err(err).Str("document_id", documentID).Msg("downloading document failed")
		return nil, alertDownloadDocument, err
	}
	return data, "", nil
}
