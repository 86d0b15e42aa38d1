package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fonotrack/fonotrack/internal/model"
)

// ListPatients returns all patients.
func (c *Client) ListPatients(ctx context.Context) ([]model.Patient, error) {
	return getList[model.Patient](ctx, c, "/pacientes")
}

// GetPatient returns one patient by ID, or ErrNotFound.
func (c *Client) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	return getOne[model.Patient](ctx, c, "/pacientes/"+url.PathEscape(id))
}

// CreatePatient persists a new patient and returns the stored record with its
// server-assigned ID and timestamps.
func (c *Client) CreatePatient(ctx context.Context, d model.PatientDraft) (*model.Patient, error) {
	return write[model.Patient](ctx, c, http.MethodPost, "/pacientes", d)
}

// UpdatePatient overwrites the editable fields of an existing patient.
func (c *Client) UpdatePatient(ctx context.Context, id string, d model.PatientDraft) (*model.Patient, error) {
	return write[model.Patient](ctx, c, http.MethodPut, "/pacientes/"+url.PathEscape(id), d)
}

// DeletePatient removes a patient from the remote store. There is no undo.
func (c *Client) DeletePatient(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/pacientes/"+url.PathEscape(id), nil)
	return err
}
