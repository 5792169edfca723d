package repository

import (
	"context"

	"jamco/internal/database"
	"jamco/internal/database/postgres"
	"jamco/internal/domain/column"
)

type PostgresColumnRepository struct {
	q database.Querier
}

func (r *PostgresColumnRepository) ListByUser(ctx context.Context, userID int64) ([]column.Column, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, user_id, name, column_number
		 FROM kanban_columns
		 WHERE user_id = $1
		 ORDER BY column_number ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]column.Column, 0)
	for rows.Next() {
		var c column.Column
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.ColumnNumber); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresColumnRepository) GetByID(ctx context.Context, userID, id int64) (column.Column, error) {
	var c column.Column
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, name, column_number FROM kanban_columns WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.ColumnNumber)
	if err != nil {
		if postgres.IsNoRows(err) {
			return column.Column{}, column.ErrNotFound
		}
		return column.Column{}, err
	}
	return c, nil
}

func (r *PostgresColumnRepository) Create(ctx context.Context, c column.Column) (column.Column, error) {
	err := r.q.QueryRow(ctx,
		`INSERT INTO kanban_columns (user_id, name, column_number)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		c.UserID, c.Name, c.ColumnNumber,
	).Scan(&c.ID)
	if err != nil {
		return column.Column{}, err
	}
	return c, nil
}

func (r *PostgresColumnRepository) Update(ctx context.Context, c column.Column) error {
	n, err := r.q.Exec(ctx,
		`UPDATE kanban_columns SET name = $3, column_number = $4 WHERE id = $1 AND user_id = $2`,
		c.ID, c.UserID, c.Name, c.ColumnNumber,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return column.ErrNotFound
	}
	return nil
}

// DeleteByIDs removes the columns and, through the foreign key, their jobs.
func (r *PostgresColumnRepository) DeleteByIDs(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`DELETE FROM kanban_columns WHERE user_id = $1 AND id = ANY($2)`,
		userID, ids,
	)
	return err
}
