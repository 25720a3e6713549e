package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
)

// ErrAttemptNotFound indicates a quiz attempt could not be found.
var ErrAttemptNotFound = errors.New("quiz attempt not found")

// ErrAttemptCompleted rejects answering or re-completing a finished attempt.
var ErrAttemptCompleted = errors.New("quiz attempt already completed")

// ErrQuizNotPublished rejects attempts against quizzes outside published state.
var ErrQuizNotPublished = errors.New("quiz is not open for attempts")

// ErrQuizExpired rejects starting an attempt after the quiz deadline.
var ErrQuizExpired = errors.New("quiz deadline has passed")

// ErrQuestionNotInQuiz rejects an answer to a question outside the quiz.
var ErrQuestionNotInQuiz = errors.New("question does not belong to the quiz")

// QuizAttemptService drives the student attempt lifecycle: start (or
// resume), answer, complete. Completion auto-grades the attempt and rolls
// the score into the marks document.
type QuizAttemptService interface {
	Start(ctx context.Context, payload dto.AttemptStartRequest) (dto.AttemptResponse, error)
	Answer(ctx context.Context, attemptID uint, payload dto.AttemptAnswerRequest) (dto.AttemptResponse, error)
	Complete(ctx context.Context, attemptID uint) (dto.AttemptResultResponse, error)
	Result(ctx context.Context, attemptID uint) (dto.AttemptResultResponse, error)
}

type quizAttemptService struct {
	attempts  repository.QuizSubmissionRepository
	quizzes   repository.QuizRepository
	students  repository.StudentRepository
	marks     MarksService
	publisher GradePublisher
	validator *validator.Validate
	tracer    trace.Tracer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuizAttemptService constructs a QuizAttemptService instance.
func NewQuizAttemptService(
	attemptRepo repository.QuizSubmissionRepository,
	quizRepo repository.QuizRepository,
	studentRepo repository.StudentRepository,
	marks MarksService,
	publisher GradePublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) QuizAttemptService {
	return &quizAttemptService{
		attempts:  attemptRepo,
		quizzes:   quizRepo,
		students:  studentRepo,
		marks:     marks,
		publisher: publisher,
		validator: validate,
		tracer:    otel.Tracer("gradehub/quiz-attempt"),
		logger:    logger.With().Str("component", "quiz_attempt_service").Logger(),
		now:       time.Now,
	}
}

// Start opens an attempt against a published quiz. An in-progress attempt
// for the same (quiz, student) pair is resumed; a finished one means the
// student cannot retake the quiz.
func (s *quizAttemptService) Start(ctx context.Context, payload dto.AttemptStartRequest) (dto.AttemptResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attempt.start", trace.WithAttributes(
		attribute.Int("quiz.id", int(payload.QuizID)),
		attribute.Int("student.id", int(payload.StudentID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.AttemptResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, payload.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttemptResponse{}, ErrQuizNotFound
		}
		return dto.AttemptResponse{}, err
	}

	if quiz.Status != models.QuizStatusPublished {
		return dto.AttemptResponse{}, ErrQuizNotPublished
	}
	if quiz.IsPastDue(s.now()) {
		return dto.AttemptResponse{}, ErrQuizExpired
	}

	if _, err := s.students.GetByID(ctx, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttemptResponse{}, ErrStudentNotFound
		}
		return dto.AttemptResponse{}, err
	}

	existing, err := s.attempts.GetByQuizAndStudent(ctx, payload.QuizID, payload.StudentID)
	if err == nil {
		if existing.Status != models.QuizSubmissionInProgress {
			return dto.AttemptResponse{}, ErrAttemptCompleted
		}

		s.logger.Info().Uint("attempt_id", existing.ID).Msg("attempt resumed")
		return dto.NewAttemptResponse(existing, quiz), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AttemptResponse{}, err
	}

	attempt := models.QuizSubmission{
		QuizID:    payload.QuizID,
		StudentID: payload.StudentID,
		StartedAt: s.now(),
		Status:    models.QuizSubmissionInProgress,
	}
	attempt.SetAnswers(nil)

	if err := s.attempts.Create(ctx, &attempt); err != nil {
		return dto.AttemptResponse{}, err
	}

	s.logger.Info().
		Uint("attempt_id", attempt.ID).
		Uint("quiz_id", payload.QuizID).
		Msg("attempt started")

	return dto.NewAttemptResponse(attempt, quiz), nil
}

// Answer records one answer inside an in-progress attempt. Re-answering a
// question replaces the earlier answer. Grading happens immediately but is
// never revealed until the attempt completes.
func (s *quizAttemptService) Answer(ctx context.Context, attemptID uint, payload dto.AttemptAnswerRequest) (dto.AttemptResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attempt.answer", trace.WithAttributes(
		attribute.Int("attempt.id", int(attemptID)),
		attribute.Int("question.id", int(payload.QuestionID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.AttemptResponse{}, err
	}

	attempt, err := s.getAttempt(ctx, attemptID)
	if err != nil {
		return dto.AttemptResponse{}, err
	}

	if attempt.Status != models.QuizSubmissionInProgress {
		return dto.AttemptResponse{}, ErrAttemptCompleted
	}

	question, ok := attempt.Quiz.QuestionByID(payload.QuestionID)
	if !ok {
		return dto.AttemptResponse{}, ErrQuestionNotInQuiz
	}

	answer := models.QuizAnswer{
		QuestionID:     payload.QuestionID,
		SelectedAnswer: payload.SelectedAnswer,
	}
	if payload.SelectedAnswer == question.CorrectAnswer {
		answer.IsCorrect = true
		answer.MarksObtained = question.Marks
	}

	attempt.UpsertAnswer(answer)

	if err := s.attempts.Update(ctx, &attempt); err != nil {
		return dto.AttemptResponse{}, err
	}

	return dto.NewAttemptResponse(attempt, attempt.Quiz), nil
}

// Complete closes the attempt, totals the auto-graded answers, and rolls
// the score into the student's marks document. An attempt completes once.
func (s *quizAttemptService) Complete(ctx context.Context, attemptID uint) (dto.AttemptResultResponse, error) {
	ctx, span := s.tracer.Start(ctx, "attempt.complete", trace.WithAttributes(
		attribute.Int("attempt.id", int(attemptID)),
	))
	defer span.End()

	attempt, err := s.getAttempt(ctx, attemptID)
	if err != nil {
		return dto.AttemptResultResponse{}, err
	}

	if !attempt.Status.CanTransition(models.QuizSubmissionCompleted) {
		return dto.AttemptResultResponse{}, ErrAttemptCompleted
	}

	endedAt := s.now()
	attempt.EndedAt = &endedAt
	attempt.TotalMarksObtained = attempt.ObtainedMarks()
	attempt.Status = models.QuizSubmissionCompleted

	if err := s.attempts.Update(ctx, &attempt); err != nil {
		return dto.AttemptResultResponse{}, err
	}

	entry := models.AssessmentEntry{
		AssessmentID: attempt.QuizID,
		Title:        attempt.Quiz.Title,
		Subject:      attempt.Quiz.Subject,
		Marks:        attempt.TotalMarksObtained,
		TotalMarks:   attempt.Quiz.TotalMarks,
		SubmittedAt:  endedAt,
	}

	enrollmentNo := attempt.Student.EnrollmentNo
	if err := s.marks.RecordAssessment(ctx, enrollmentNo, models.KindQuiz, attempt.Quiz.AssessmentType, entry); err != nil {
		return dto.AttemptResultResponse{}, err
	}

	event := GradeEvent{
		Kind:         string(models.KindQuiz),
		AssessmentID: attempt.QuizID,
		EnrollmentNo: models.NormalizeEnrollmentNo(enrollmentNo),
		Marks:        attempt.TotalMarksObtained,
		TotalMarks:   attempt.Quiz.TotalMarks,
		OccurredAt:   endedAt,
	}
	if err := s.publisher.PublishGradeRecorded(ctx, event); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish grade event")
	}

	s.logger.Info().
		Uint("attempt_id", attempt.ID).
		Float64("marks", attempt.TotalMarksObtained).
		Msg("attempt completed")

	return buildAttemptResult(attempt), nil
}

// Result returns the summary of a finished attempt.
func (s *quizAttemptService) Result(ctx context.Context, attemptID uint) (dto.AttemptResultResponse, error) {
	attempt, err := s.getAttempt(ctx, attemptID)
	if err != nil {
		return dto.AttemptResultResponse{}, err
	}

	if attempt.Status == models.QuizSubmissionInProgress {
		return dto.AttemptResultResponse{}, ErrAttemptNotFound
	}

	return buildAttemptResult(attempt), nil
}

func (s *quizAttemptService) getAttempt(ctx context.Context, id uint) (models.QuizSubmission, error) {
	attempt, err := s.attempts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.QuizSubmission{}, ErrAttemptNotFound
		}
		return models.QuizSubmission{}, err
	}
	return attempt, nil
}

func buildAttemptResult(attempt models.QuizSubmission) dto.AttemptResultResponse {
	percentage := 0.0
	if attempt.Quiz.TotalMarks > 0 {
		percentage = attempt.TotalMarksObtained / attempt.Quiz.TotalMarks * 100
	}

	return dto.AttemptResultResponse{
		SubmissionID:       attempt.ID,
		TotalQuestions:     len(attempt.Quiz.Questions),
		AnsweredQuestions:  len(attempt.AnswerList()),
		CorrectAnswers:     attempt.CorrectCount(),
		TotalMarksObtained: attempt.TotalMarksObtained,
		Percentage:         percentage,
	}
}
