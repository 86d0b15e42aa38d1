package gateway

import (
	"context"

	"github.com/fonotrack/fonotrack/internal/model"
)

// DashboardStats fetches the server-computed dashboard snapshot.
func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return getOne[model.DashboardStats](ctx, c, "/dashboard/stats")
}

// MonthlyStats fetches the evaluations-per-month series.
func (c *Client) MonthlyStats(ctx context.Context) ([]model.MonthlyStat, error) {
	return getList[model.MonthlyStat](ctx, c, "/dashboard/monthly-stats")
}
