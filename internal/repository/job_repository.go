package repository

import (
	"context"
	"encoding/json"

	"jamco/internal/database"
	"jamco/internal/database/postgres"
	"jamco/internal/domain/job"
)

type PostgresJobRepository struct {
	q database.Querier
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	err := r.q.QueryRow(ctx,
		`INSERT INTO jobs (user_id, kcolumn_id, position_title, company, description, notes, cover_letter, type, deadlines)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		j.UserID, j.ColumnID, j.PositionTitle, j.Company, j.Description, j.Notes, j.CoverLetter, j.Type, jsonArg(j.Deadlines),
	).Scan(&j.ID)
	if err != nil {
		return job.Job{}, err
	}
	return j, nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, j job.Job) error {
	n, err := r.q.Exec(ctx,
		`UPDATE jobs
		 SET kcolumn_id = $3, position_title = $4, company = $5, description = $6,
		     notes = $7, cover_letter = $8, type = $9, deadlines = $10
		 WHERE id = $1 AND user_id = $2`,
		j.ID, j.UserID, j.ColumnID, j.PositionTitle, j.Company, j.Description,
		j.Notes, j.CoverLetter, j.Type, jsonArg(j.Deadlines),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, userID, jobID int64) (job.Job, error) {
	var (
		j         job.Job
		deadlines []byte
	)
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, kcolumn_id, position_title, company, description, notes, cover_letter, type, deadlines
		 FROM jobs
		 WHERE id = $1 AND user_id = $2`,
		jobID, userID,
	).Scan(&j.ID, &j.UserID, &j.ColumnID, &j.PositionTitle, &j.Company, &j.Description, &j.Notes, &j.CoverLetter, &j.Type, &deadlines)
	if err != nil {
		if postgres.IsNoRows(err) {
			return job.Job{}, job.ErrNotFound
		}
		return job.Job{}, err
	}
	if len(deadlines) > 0 {
		j.Deadlines = json.RawMessage(deadlines)
	}
	return j, nil
}

func (r *PostgresJobRepository) ListSummaries(ctx context.Context, userID int64) ([]job.Summary, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, kcolumn_id, position_title, company, type
		 FROM jobs
		 WHERE user_id = $1
		 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Summary, 0)
	for rows.Next() {
		var s job.Summary
		if err := rows.Scan(&s.ID, &s.ColumnID, &s.PositionTitle, &s.Company, &s.Type); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// jsonArg sends an unset document as SQL NULL rather than JSON null.
func jsonArg(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
