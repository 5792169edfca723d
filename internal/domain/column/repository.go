package column

import (
	"context"
	"fmt"

	"jamco/internal/domain"
)

var ErrNotFound = fmt.Errorf("column %w", domain.ErrNotFound)

type Repository interface {
	// ListByUser returns columns ordered by column_number, then id.
	ListByUser(ctx context.Context, userID int64) ([]Column, error)
	GetByID(ctx context.Context, userID, id int64) (Column, error)
	Create(ctx context.Context, c Column) (Column, error)
	Update(ctx context.Context, c Column) error
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) error
}
