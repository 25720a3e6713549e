package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
)

// ErrAssignmentNotFound indicates an assignment could not be found.
var ErrAssignmentNotFound = errors.New("assignment not found")

// AssignmentService orchestrates assignment workflows.
type AssignmentService interface {
	List(ctx context.Context, filter dto.AssignmentFilter) ([]dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	Create(ctx context.Context, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error)
	Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	files       FileStore
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(assignmentRepo repository.AssignmentRepository, validate *validator.Validate, files FileStore, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignmentRepo,
		validator:   validate,
		files:       files,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) List(ctx context.Context, filter dto.AssignmentFilter) ([]dto.AssignmentResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	assignments, err := s.assignments.List(ctx, repository.AssignmentFilter{
		Branch:    filter.Branch,
		Semester:  filter.Semester,
		Subject:   filter.Subject,
		CreatedBy: filter.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Create(ctx context.Context, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		Title:          s.sanitizer.Sanitize(payload.Title),
		Description:    s.sanitizer.Sanitize(payload.Description),
		Subject:        payload.Subject,
		Branch:         payload.Branch,
		Semester:       payload.Semester,
		TotalMarks:     payload.TotalMarks,
		DueDate:        dueDate,
		AssessmentType: assessmentTypeOrDefault(payload.AssessmentType),
		CreatedBy:      payload.CreatedBy,
	}

	if file != nil {
		reader, err := file.Open()
		if err != nil {
			return dto.AssignmentResponse{}, fmt.Errorf("failed to open file: %w", err)
		}
		defer reader.Close()

		result, err := s.files.Upload(ctx, file.Filename, reader)
		if err != nil {
			return dto.AssignmentResponse{}, fmt.Errorf("failed to upload file: %w", err)
		}
		assignment.FileURL = result.URL
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Update(ctx context.Context, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = s.sanitizer.Sanitize(*payload.Title)
	}
	if payload.Description != nil {
		assignment.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Subject != nil {
		assignment.Subject = *payload.Subject
	}
	if payload.Branch != nil {
		assignment.Branch = *payload.Branch
	}
	if payload.Semester != nil {
		assignment.Semester = *payload.Semester
	}
	if payload.TotalMarks != nil {
		assignment.TotalMarks = *payload.TotalMarks
	}
	if payload.DueDate != nil {
		dueDate, err := parseDueDate(*payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.DueDate = dueDate
	}
	if payload.AssessmentType != nil {
		assignment.AssessmentType = assessmentTypeOrDefault(*payload.AssessmentType)
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

// Delete removes the assignment and all submissions against it.
func (s *assignmentService) Delete(ctx context.Context, id uint) error {
	if err := s.assignments.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assignment_id", id).Msg("assignment deleted with submissions")
	return nil
}

func parseDueDate(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("due date must be RFC3339: %w", err)
	}
	return parsed, nil
}

func assessmentTypeOrDefault(value string) models.AssessmentType {
	t := models.AssessmentType(value)
	if !t.Valid() {
		return models.AssessmentTypeOther
	}
	return t
}
