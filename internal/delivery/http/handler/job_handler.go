package handler

import (
	"context"
	"encoding/json"

	"jamco/internal/delivery/http/dto"
	"jamco/internal/delivery/http/middleware"
	"jamco/internal/domain/job"
	"jamco/internal/pkg/response"
	jobuc "jamco/internal/usecase/job"

	"github.com/gofiber/fiber/v3"
)

type JobUsecase interface {
	CreateJob(ctx context.Context, userID int64, in jobuc.CreateInput) (job.Job, error)
	UpdateJob(ctx context.Context, userID, jobID int64, fields map[string]json.RawMessage) (job.Job, error)
	GetJobByID(ctx context.Context, userID, jobID int64) (job.Job, error)
	GetMinimumJobs(ctx context.Context, userID int64) ([]job.Summary, error)
	ImportJob(ctx context.Context, userID, columnID int64, rawURL string) (job.Job, error)
}

type JobHandler struct {
	uc JobUsecase
}

type createJobRequest struct {
	ColumnID      *int64          `json:"kcolumn_id"`
	PositionTitle *string         `json:"position_title"`
	Company       *string         `json:"company"`
	Description   string          `json:"description"`
	Notes         string          `json:"notes"`
	CoverLetter   string          `json:"cover_letter"`
	Type          *string         `json:"type"`
	Deadlines     json.RawMessage `json:"deadlines"`
}

type importJobRequest struct {
	ColumnID *int64 `json:"kcolumn_id"`
	URL      string `json:"url"`
}

func NewJobHandler(uc JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) ListJobs(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}

	jobs, err := h.uc.GetMinimumJobs(c.Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewJobSummaries(jobs))
}

func (h *JobHandler) GetJob(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	jobID, err := paramID(c, "job_id")
	if err != nil {
		return err
	}

	j, err := h.uc.GetJobByID(c.Context(), id, jobID)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewJobResponse(j))
}

func (h *JobHandler) CreateJob(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	var req createJobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.uc.CreateJob(c.Context(), id, jobuc.CreateInput{
		ColumnID:      req.ColumnID,
		PositionTitle: req.PositionTitle,
		Company:       req.Company,
		Description:   req.Description,
		Notes:         req.Notes,
		CoverLetter:   req.CoverLetter,
		Type:          req.Type,
		Deadlines:     req.Deadlines,
	})
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewJobResponse(j))
}

func (h *JobHandler) UpdateJob(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	jobID, err := paramID(c, "job_id")
	if err != nil {
		return err
	}
	fields, err := bindFields(c)
	if err != nil {
		return err
	}

	j, err := h.uc.UpdateJob(c.Context(), id, jobID, fields)
	if err != nil {
		return err
	}
	return response.OK(c, dto.NewJobResponse(j))
}

func (h *JobHandler) ImportJob(c fiber.Ctx) error {
	id, err := ownerID(c)
	if err != nil {
		return err
	}
	var req importJobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.ColumnID == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "kcolumn_id is required", nil, nil)
	}

	j, err := h.uc.ImportJob(c.Context(), id, *req.ColumnID, req.URL)
	if err != nil {
		return err
	}
	return response.Created(c, dto.NewJobResponse(j))
}
