package gateway

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fonotrack/fonotrack/internal/model"
)

// SearchPatients runs the paginated server-side patient search.
func (c *Client) SearchPatients(ctx context.Context, query string, page, limit int) (*model.PatientSearchResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	path := fmt.Sprintf("/buscar/pacientes?q=%s&page=%d&limit=%d", url.QueryEscape(query), page, limit)
	return getOne[model.PatientSearchResult](ctx, c, path)
}

// SearchGlobal runs the cross-record server-side search.
func (c *Client) SearchGlobal(ctx context.Context, query string) (*model.GlobalSearchResult, error) {
	return getOne[model.GlobalSearchResult](ctx, c, "/buscar/global?q="+url.QueryEscape(query))
}
