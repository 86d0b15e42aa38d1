package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fonotrack/fonotrack/internal/model"
)

// ListDocuments returns all documents.
func (c *Client) ListDocuments(ctx context.Context) ([]model.Document, error) {
	return getList[model.Document](ctx, c, "/documentos")
}

// ListDocumentsByPatient returns the documents attached to one patient.
func (c *Client) ListDocumentsByPatient(ctx context.Context, patientID string) ([]model.Document, error) {
	return getList[model.Document](ctx, c, "/documentos/patient/"+url.PathEscape(patientID))
}

// DownloadDocument returns the raw file contents of a document.
func (c *Client) DownloadDocument(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/documentos/download/"+url.PathEscape(id), nil)
}

// DeleteDocument removes a document.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/documentos/"+url.PathEscape(id), nil)
	return err
}
