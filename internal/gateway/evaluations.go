package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fonotrack/fonotrack/internal/model"
)

// ListEvaluations returns all evaluations.
func (c *Client) ListEvaluations(ctx context.Context) ([]model.Evaluation, error) {
	return getList[model.Evaluation](ctx, c, "/evaluaciones")
}

// GetEvaluation returns one evaluation by ID, or ErrNotFound.
func (c *Client) GetEvaluation(ctx context.Context, id string) (*model.Evaluation, error) {
	return getOne[model.Evaluation](ctx, c, "/evaluaciones/"+url.PathEscape(id))
}

// ListEvaluationsByPatient returns the evaluations referencing one patient.
func (c *Client) ListEvaluationsByPatient(ctx context.Context, patientID string) ([]model.Evaluation, error) {
	return getList[model.Evaluation](ctx, c, "/evaluaciones/patient/"+url.PathEscape(patientID))
}

// CreateEvaluation persists a new evaluation.
func (c *Client) CreateEvaluation(ctx context.Context, d model.EvaluationDraft) (*model.Evaluation, error) {
	return write[model.Evaluation](ctx, c, http.MethodPost, "/evaluaciones", d)
}

// UpdateEvaluation overwrites the editable fields of an existing evaluation.
func (c *Client) UpdateEvaluation(ctx context.Context, id string, d model.EvaluationDraft) (*model.Evaluation, error) {
	return write[model.Evaluation](ctx, c, http.MethodPut, "/evaluaciones/"+url.PathEscape(id), d)
}

// DeleteEvaluation removes an evaluation.
func (c *Client) DeleteEvaluation(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/evaluaciones/"+url.PathEscape(id), nil)
	return err
}
