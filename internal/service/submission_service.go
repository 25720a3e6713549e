package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrSubmissionEvaluated rejects resubmission once a submission is evaluated.
var ErrSubmissionEvaluated = errors.New("submission already evaluated")

// SubmissionService orchestrates assignment submission workflows.
type SubmissionService interface {
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	GetByID(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	Submit(ctx context.Context, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
	Evaluate(ctx context.Context, id uint, payload dto.SubmissionEvaluateRequest) (dto.SubmissionResponse, error)
	Delete(ctx context.Context, id uint) error
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	students    repository.StudentRepository
	marks       MarksService
	publisher   GradePublisher
	validator   *validator.Validate
	files       FileStore
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
	studentRepo repository.StudentRepository,
	marks MarksService,
	publisher GradePublisher,
	validate *validator.Validate,
	files FileStore,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissions: submissionRepo,
		assignments: assignmentRepo,
		students:    studentRepo,
		marks:       marks,
		publisher:   publisher,
		validator:   validate,
		files:       files,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.SubmissionFilter{
		AssignmentID: filter.AssignmentID,
		StudentID:    filter.StudentID,
	}
	if filter.Status != nil {
		status := models.SubmissionStatus(*filter.Status)
		repoFilter.Status = &status
	}

	submissions, err := s.submissions.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) GetByID(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

// Submit uploads a file against an assignment. One row exists per
// (assignment, student): a second upload replaces the stored file and resets
// any pending state, but an evaluated submission cannot be replaced.
func (s *submissionService) Submit(ctx context.Context, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if file == nil {
		return dto.SubmissionResponse{}, fmt.Errorf("submission file is required")
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	fileType, err := detectFileType(file)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	existing, err := s.submissions.GetByAssignmentAndStudent(ctx, payload.AssignmentID, payload.StudentID)
	resubmission := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}
	if resubmission && existing.Status == models.SubmissionStatusEvaluated {
		return dto.SubmissionResponse{}, ErrSubmissionEvaluated
	}

	reader, err := file.Open()
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	result, err := s.files.Upload(ctx, file.Filename, reader)
	if err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("failed to upload file: %w", err)
	}

	submittedAt := s.now()
	status := models.StatusForDeadline(assignment.DueDate, submittedAt)

	if resubmission {
		oldPublicID := existing.FilePublicID

		existing.FileURL = result.URL
		existing.FileName = file.Filename
		existing.FileType = fileType
		existing.FilePublicID = result.PublicID
		existing.SubmittedAt = submittedAt
		existing.Marks = nil
		existing.Feedback = ""
		existing.Status = status

		if err := s.submissions.Update(ctx, &existing); err != nil {
			return dto.SubmissionResponse{}, err
		}

		if err := s.files.Destroy(ctx, oldPublicID); err != nil {
			s.logger.Warn().Err(err).Str("public_id", oldPublicID).Msg("failed to remove replaced file")
		}

		updated, err := s.submissions.GetByID(ctx, existing.ID)
		if err != nil {
			return dto.SubmissionResponse{}, err
		}

		s.logger.Info().Uint("submission_id", existing.ID).Msg("submission replaced")

		return dto.NewSubmissionResponse(updated), nil
	}

	submission := models.Submission{
		AssignmentID: payload.AssignmentID,
		StudentID:    payload.StudentID,
		FileURL:      result.URL,
		FileName:     file.Filename,
		FileType:     fileType,
		FilePublicID: result.PublicID,
		SubmittedAt:  submittedAt,
		Status:       status,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("status", string(status)).
		Msg("submission created")

	return dto.NewSubmissionResponse(created), nil
}

// Evaluate scores a submission and rolls the result into the student's
// marks document. Marks outside [0, total] are clamped to the valid range.
func (s *submissionService) Evaluate(ctx context.Context, id uint, payload dto.SubmissionEvaluateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if submission.Status != models.SubmissionStatusEvaluated &&
		!submission.Status.CanTransition(models.SubmissionStatusEvaluated) {
		return dto.SubmissionResponse{}, ErrSubmissionEvaluated
	}

	marks := clampMarks(*payload.Marks, submission.Assignment.TotalMarks)
	submission.Marks = &marks
	submission.Feedback = s.sanitizer.Sanitize(payload.Feedback)
	submission.Status = models.SubmissionStatusEvaluated

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	entry := models.AssessmentEntry{
		AssessmentID: submission.AssignmentID,
		Title:        submission.Assignment.Title,
		Subject:      submission.Assignment.Subject,
		Marks:        marks,
		TotalMarks:   submission.Assignment.TotalMarks,
		SubmittedAt:  submission.SubmittedAt,
	}

	enrollmentNo := submission.Student.EnrollmentNo
	if err := s.marks.RecordAssessment(ctx, enrollmentNo, models.KindAssignment, submission.Assignment.AssessmentType, entry); err != nil {
		return dto.SubmissionResponse{}, err
	}

	event := GradeEvent{
		Kind:         string(models.KindAssignment),
		AssessmentID: submission.AssignmentID,
		EnrollmentNo: models.NormalizeEnrollmentNo(enrollmentNo),
		Marks:        marks,
		TotalMarks:   submission.Assignment.TotalMarks,
		OccurredAt:   s.now(),
	}
	if err := s.publisher.PublishGradeRecorded(ctx, event); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish grade event")
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Float64("marks", marks).
		Msg("submission evaluated")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Delete(ctx context.Context, id uint) error {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	if err := s.submissions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return err
	}

	if err := s.files.Destroy(ctx, submission.FilePublicID); err != nil {
		s.logger.Warn().Err(err).Str("public_id", submission.FilePublicID).Msg("failed to remove submission file")
	}

	s.logger.Info().Uint("submission_id", id).Msg("submission deleted")
	return nil
}

func clampMarks(value, total float64) float64 {
	if value < 0 {
		return 0
	}
	if total > 0 && value > total {
		return total
	}
	return value
}

func detectFileType(file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{
		"application/pdf",
		"application/zip",
		"application/x-zip-compressed",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
		"image/png",
		"image/jpeg",
	}
	for _, a := range allowed {
		if mime.Is(a) {
			return mime.String(), nil
		}
	}

	return "", fmt.Errorf("unsupported file type: %s", mime.String())
}
