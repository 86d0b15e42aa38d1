// Package controller holds the stateful page logic: form controllers running
// the validate→submit→notify lifecycle and list controllers running the
// load→filter→reload cycle. Controllers never render; a view layer reads
// their state and dispatches intents through their methods.
package controller

import (
	"context"

	"github.com/fonotrack/fonotrack/internal/model"
)

// The controllers depend on narrow slices of the gateway so tests can swap in
// counting fakes. *gateway.Client satisfies all of them.

// PatientWriter persists patient drafts.
type PatientWriter interface {
	CreatePatient(ctx context.Context, d model.PatientDraft) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id string, d model.PatientDraft) (*model.Patient, error)
}

// PatientReader loads patient records.
type PatientReader interface {
	ListPatients(ctx context.Context) ([]model.Patient, error)
	GetPatient(ctx context.Context, id string) (*model.Patient, error)
}

// PatientDeleter removes patient records.
type PatientDeleter interface {
	DeletePatient(ctx context.Context, id string) error
}

// EvaluationWriter persists evaluation drafts.
type EvaluationWriter interface {
	CreateEvaluation(ctx context.Context, d model.EvaluationDraft) (*model.Evaluation, error)
	UpdateEvaluation(ctx context.Context, id string, d model.EvaluationDraft) (*model.Evaluation, error)
}

// EvaluationReader loads evaluation records.
type EvaluationReader interface {
	ListEvaluations(ctx context.Context) ([]model.Evaluation, error)
	ListEvaluationsByPatient(ctx context.Context, patientID string) ([]model.Evaluation, error)
}

// EvaluationDeleter removes evaluation records.
type EvaluationDeleter interface {
	DeleteEvaluation(ctx context.Context, id string) error
}

// DocumentReader loads and downloads documents.
type DocumentReader interface {
	ListDocumentsByPatient(ctx context.Context, patientID string) ([]model.Document, error)
	DownloadDocument(ctx context.Context, id string) ([]byte, error)
}

// DocumentDeleter removes documents.
type DocumentDeleter interface {
	DeleteDocument(ctx context.Context, id string) error
}

// ConfirmFunc asks the user to confirm a destructive action. Deletes are only
// issued when it returns true.
type ConfirmFunc func(prompt string) bool
