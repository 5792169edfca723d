package repository

import (
	"context"
	"strings"
	"time"

	"jamco/internal/database"
	"jamco/internal/database/postgres"
	"jamco/internal/domain"
	"jamco/internal/domain/user"
)

const userColumns = `u.id, u.google_id, u.username, u.first_name, u.last_name, u.email,
	u.image_url, u.country, u.city, u.region, u.birthday, u.field_of_work, u.last_login, u.created_at`

type PostgresUserRepository struct {
	q database.Querier
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.GoogleID, &u.Username, &u.FirstName, &u.LastName, &u.Email,
		&u.ImageURL, &u.Country, &u.City, &u.Region, &u.Birthday, &u.FieldOfWork, &u.LastLogin, &u.CreatedAt,
	)
	return u, err
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	row := r.q.QueryRow(ctx,
		`INSERT INTO users AS u (google_id, username, first_name, last_name, email, image_url, country, city, region, birthday, field_of_work)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+userColumns,
		u.GoogleID, u.Username, u.FirstName, u.LastName, u.Email,
		u.ImageURL, u.Country, u.City, u.Region, u.Birthday, u.FieldOfWork,
	)
	created, err := scanUser(row)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return user.User{}, domain.ErrConflict
		}
		return user.User{}, err
	}
	return created, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (user.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByGoogleID(ctx context.Context, googleID string) (user.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users u WHERE u.google_id = $1`, googleID))
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) error {
	n, err := r.q.Exec(ctx,
		`UPDATE users
		 SET username = $2, first_name = $3, last_name = $4, email = $5, image_url = $6,
		     country = $7, city = $8, region = $9, birthday = $10, field_of_work = $11
		 WHERE id = $1`,
		u.ID, u.Username, u.FirstName, u.LastName, u.Email, u.ImageURL,
		u.Country, u.City, u.Region, u.Birthday, u.FieldOfWork,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	n, err := r.q.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) SearchByName(ctx context.Context, query string, excludeID int64, limit int) ([]user.User, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	rows, err := r.q.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users u
		 JOIN privacies p ON p.user_id = u.id
		 WHERE p.is_searchable
		   AND u.id <> $2
		   AND (u.username ILIKE $1 OR u.first_name ILIKE $1 OR u.last_name ILIKE $1
		        OR (u.first_name || ' ' || u.last_name) ILIKE $1)
		 ORDER BY u.username ASC, u.id ASC
		 LIMIT $3`,
		pattern, excludeID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type PostgresPrivacyRepository struct {
	q database.Querier
}

func (r *PostgresPrivacyRepository) Create(ctx context.Context, p user.Privacy) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO privacies (user_id, is_searchable, share_kanban, cover_letter_requestable)
		 VALUES ($1, $2, $3, $4)`,
		p.UserID, p.IsSearchable, p.ShareKanban, p.CoverLetterRequestable,
	)
	if err != nil && postgres.IsUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *PostgresPrivacyRepository) Get(ctx context.Context, userID int64) (user.Privacy, error) {
	var p user.Privacy
	err := r.q.QueryRow(ctx,
		`SELECT user_id, is_searchable, share_kanban, cover_letter_requestable
		 FROM privacies WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.IsSearchable, &p.ShareKanban, &p.CoverLetterRequestable)
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.Privacy{}, user.ErrPrivacyNotFound
		}
		return user.Privacy{}, err
	}
	return p, nil
}

func (r *PostgresPrivacyRepository) Update(ctx context.Context, p user.Privacy) error {
	n, err := r.q.Exec(ctx,
		`UPDATE privacies
		 SET is_searchable = $2, share_kanban = $3, cover_letter_requestable = $4
		 WHERE user_id = $1`,
		p.UserID, p.IsSearchable, p.ShareKanban, p.CoverLetterRequestable,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrPrivacyNotFound
	}
	return nil
}
