package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"jamco/internal/domain"
	"jamco/internal/domain/job"
	"jamco/internal/domain/user"
	"jamco/internal/repository"
)

var (
	ErrMissingField = fmt.Errorf("%w: job missing field", domain.ErrValidation)
	ErrEmptyUpdate  = fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	ErrUnknownField = fmt.Errorf("%w: unknown field", domain.ErrValidation)
	errInvalidValue = fmt.Errorf("%w: invalid value", domain.ErrValidation)
)

// CreateInput uses pointers so a missing required field can be told apart
// from a zero value.
type CreateInput struct {
	ColumnID      *int64
	PositionTitle *string
	Company       *string
	Description   string
	Notes         string
	CoverLetter   string
	Type          *string
	Deadlines     json.RawMessage
}

// Posting is what an importer could read from a job posting page.
type Posting struct {
	Title       string
	Company     string
	Description string
}

type Importer interface {
	Fetch(ctx context.Context, rawURL string) (Posting, error)
}

type Service struct {
	store    repository.Store
	importer Importer
	logger   *log.Logger
}

func NewService(store repository.Store, importer Importer, logger *log.Logger) *Service {
	return &Service{store: store, importer: importer, logger: logger}
}

func (s *Service) CreateJob(ctx context.Context, userID int64, in CreateInput) (job.Job, error) {
	switch {
	case in.ColumnID == nil:
		return job.Job{}, fmt.Errorf("%w: kcolumn_id", ErrMissingField)
	case in.PositionTitle == nil || strings.TrimSpace(*in.PositionTitle) == "":
		return job.Job{}, fmt.Errorf("%w: position_title", ErrMissingField)
	case in.Company == nil || strings.TrimSpace(*in.Company) == "":
		return job.Job{}, fmt.Errorf("%w: company", ErrMissingField)
	}
	if len(in.Deadlines) > 0 && !json.Valid(in.Deadlines) {
		return job.Job{}, fmt.Errorf("deadlines: %w", errInvalidValue)
	}

	j := job.Job{
		UserID:        userID,
		ColumnID:      *in.ColumnID,
		PositionTitle: *in.PositionTitle,
		Company:       *in.Company,
		Description:   in.Description,
		Notes:         in.Notes,
		CoverLetter:   in.CoverLetter,
		Type:          in.Type,
		Deadlines:     nullToNil(in.Deadlines),
	}

	var out job.Job
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		if err := requireUser(ctx, r.Users(), userID); err != nil {
			return err
		}
		if _, err := r.Columns().GetByID(ctx, userID, j.ColumnID); err != nil {
			return err
		}
		var err error
		out, err = r.Jobs().Create(ctx, j)
		return err
	})
	if err != nil {
		return job.Job{}, err
	}
	return out, nil
}

type jobSetter func(j *job.Job, raw json.RawMessage) error

var jobFields = map[string]jobSetter{
	"kcolumn_id": func(j *job.Job, raw json.RawMessage) error {
		var id int64
		if isNull(raw) || json.Unmarshal(raw, &id) != nil {
			return errInvalidValue
		}
		j.ColumnID = id
		return nil
	},
	"position_title": requiredString(func(j *job.Job) *string { return &j.PositionTitle }),
	"company":        requiredString(func(j *job.Job) *string { return &j.Company }),
	"description":    plainString(func(j *job.Job) *string { return &j.Description }),
	"notes":          plainString(func(j *job.Job) *string { return &j.Notes }),
	"cover_letter":   plainString(func(j *job.Job) *string { return &j.CoverLetter }),
	"type": func(j *job.Job, raw json.RawMessage) error {
		if isNull(raw) {
			j.Type = nil
			return nil
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return errInvalidValue
		}
		j.Type = &v
		return nil
	},
	"deadlines": func(j *job.Job, raw json.RawMessage) error {
		if !json.Valid(raw) {
			return errInvalidValue
		}
		j.Deadlines = nullToNil(raw)
		return nil
	},
}

func requiredString(field func(j *job.Job) *string) jobSetter {
	return func(j *job.Job, raw json.RawMessage) error {
		var v string
		if isNull(raw) || json.Unmarshal(raw, &v) != nil || strings.TrimSpace(v) == "" {
			return errInvalidValue
		}
		*field(j) = v
		return nil
	}
}

// plainString treats null as the empty string.
func plainString(field func(j *job.Job) *string) jobSetter {
	return func(j *job.Job, raw json.RawMessage) error {
		if isNull(raw) {
			*field(j) = ""
			return nil
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return errInvalidValue
		}
		*field(j) = v
		return nil
	}
}

func (s *Service) UpdateJob(ctx context.Context, userID, jobID int64, fields map[string]json.RawMessage) (job.Job, error) {
	if len(fields) == 0 {
		return job.Job{}, ErrEmptyUpdate
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := jobFields[k]; !ok {
			return job.Job{}, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out job.Job
	err := s.store.WithTx(ctx, func(r repository.Repos) error {
		j, err := r.Jobs().GetByID(ctx, userID, jobID)
		if err != nil {
			return err
		}
		before := j.ColumnID
		for _, k := range keys {
			if err := jobFields[k](&j, fields[k]); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		if j.ColumnID != before {
			if _, err := r.Columns().GetByID(ctx, userID, j.ColumnID); err != nil {
				return err
			}
		}
		if err := r.Jobs().Update(ctx, j); err != nil {
			return err
		}
		out = j
		return nil
	})
	if err != nil {
		return job.Job{}, err
	}
	return out, nil
}

func (s *Service) GetJobByID(ctx context.Context, userID, jobID int64) (job.Job, error) {
	return s.store.Jobs().GetByID(ctx, userID, jobID)
}

func (s *Service) GetMinimumJobs(ctx context.Context, userID int64) ([]job.Summary, error) {
	if err := requireUser(ctx, s.store.Users(), userID); err != nil {
		return nil, err
	}
	return s.store.Jobs().ListSummaries(ctx, userID)
}

// ImportJob reads a posting page and files it under columnID.
func (s *Service) ImportJob(ctx context.Context, userID, columnID int64, rawURL string) (job.Job, error) {
	if strings.TrimSpace(rawURL) == "" {
		return job.Job{}, fmt.Errorf("%w: url", ErrMissingField)
	}
	if s.importer == nil {
		return job.Job{}, fmt.Errorf("%w: import is not available", domain.ErrValidation)
	}
	if _, err := s.store.Columns().GetByID(ctx, userID, columnID); err != nil {
		return job.Job{}, err
	}

	p, err := s.importer.Fetch(ctx, rawURL)
	if err != nil {
		return job.Job{}, err
	}
	if s.logger != nil {
		s.logger.Printf("Job imported | user_id=%d url=%s", userID, rawURL)
	}

	company := p.Company
	if strings.TrimSpace(company) == "" {
		company = "Unknown Company"
	}
	return s.CreateJob(ctx, userID, CreateInput{
		ColumnID:      &columnID,
		PositionTitle: &p.Title,
		Company:       &company,
		Description:   p.Description,
		Notes:         rawURL,
	})
}

func requireUser(ctx context.Context, users user.Repository, userID int64) error {
	exists, err := users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return user.ErrNotFound
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func nullToNil(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || isNull(raw) {
		return nil
	}
	return raw
}
