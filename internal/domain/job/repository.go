package job

import (
	"context"
	"fmt"

	"jamco/internal/domain"
)

var ErrNotFound = fmt.Errorf("job %w", domain.ErrNotFound)

type Repository interface {
	Create(ctx context.Context, j Job) (Job, error)
	Update(ctx context.Context, j Job) error
	// GetByID only finds jobs owned by userID.
	GetByID(ctx context.Context, userID, jobID int64) (Job, error)
	ListSummaries(ctx context.Context, userID int64) ([]Summary, error)
}
