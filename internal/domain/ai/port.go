package ai

import (
	"context"

	"github.com/bryanwahyu/recon-dashboard/internal/domain/reports"
)

// Client port for the external summary collaborator.
type Client interface {
	Summarize(ctx context.Context, r *reports.Report) (string, error)
}
