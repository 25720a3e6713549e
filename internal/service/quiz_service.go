package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
	"github.com/gradehub/gradehub-api/pkg/ai"
)

// ErrQuizNotFound indicates a quiz could not be found.
var ErrQuizNotFound = errors.New("quiz not found")

// ErrQuestionNotFound indicates a question could not be found on the quiz.
var ErrQuestionNotFound = errors.New("question not found")

// ErrQuizNoQuestions rejects publishing a quiz that has no questions.
var ErrQuizNoQuestions = errors.New("quiz has no questions")

// ErrQuizStateConflict rejects an illegal status transition.
var ErrQuizStateConflict = errors.New("quiz status transition not allowed")

// ErrQuizNotEditable rejects question changes on a quiz that left draft.
var ErrQuizNotEditable = errors.New("quiz is no longer editable")

// ErrCorrectAnswerMismatch rejects a question whose correct answer is not
// one of its options.
var ErrCorrectAnswerMismatch = errors.New("correct answer must match one of the options")

// QuizService orchestrates quiz authoring workflows.
type QuizService interface {
	List(ctx context.Context, filter dto.QuizFilter) ([]dto.QuizResponse, error)
	GetByID(ctx context.Context, id uint) (dto.QuizResponse, error)
	Create(ctx context.Context, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	Update(ctx context.Context, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error)
	Delete(ctx context.Context, id uint) error

	AddQuestion(ctx context.Context, quizID uint, payload dto.QuestionCreateRequest) (dto.QuizResponse, error)
	UpdateQuestion(ctx context.Context, quizID, questionID uint, payload dto.QuestionCreateRequest) (dto.QuizResponse, error)
	DeleteQuestion(ctx context.Context, quizID, questionID uint) (dto.QuizResponse, error)
	GenerateQuestions(ctx context.Context, quizID uint, payload dto.GenerateQuestionsRequest) (dto.QuizResponse, error)
}

type quizService struct {
	quizzes   repository.QuizRepository
	validator *validator.Validate
	generator ai.Generator
	fallback  ai.Generator
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewQuizService constructs a QuizService instance. The generator may be nil,
// in which case question generation uses the fallback templates only.
func NewQuizService(quizRepo repository.QuizRepository, validate *validator.Validate, generator ai.Generator, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizRepo,
		validator: validate,
		generator: generator,
		fallback:  ai.NewFallbackGenerator(),
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "quiz_service").Logger(),
	}
}

func (s *quizService) List(ctx context.Context, filter dto.QuizFilter) ([]dto.QuizResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.QuizFilter{
		Branch:    filter.Branch,
		Semester:  filter.Semester,
		Subject:   filter.Subject,
		CreatedBy: filter.CreatedBy,
	}
	if filter.Status != nil {
		status := models.QuizStatus(*filter.Status)
		repoFilter.Status = &status
	}

	quizzes, err := s.quizzes.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizResponseSlice(quizzes), nil
}

func (s *quizService) GetByID(ctx context.Context, id uint) (dto.QuizResponse, error) {
	quiz, err := s.getQuiz(ctx, id)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Create(ctx context.Context, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	quiz := models.Quiz{
		Title:          s.sanitizer.Sanitize(payload.Title),
		Description:    s.sanitizer.Sanitize(payload.Description),
		Subject:        payload.Subject,
		Branch:         payload.Branch,
		Semester:       payload.Semester,
		TotalMarks:     payload.TotalMarks,
		Duration:       payload.Duration,
		DueDate:        dueDate,
		AssessmentType: assessmentTypeOrDefault(payload.AssessmentType),
		CreatedBy:      payload.CreatedBy,
		Status:         models.QuizStatusDraft,
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Msg("quiz created")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Update(ctx context.Context, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.getQuiz(ctx, id)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	if payload.Title != nil {
		quiz.Title = s.sanitizer.Sanitize(*payload.Title)
	}
	if payload.Description != nil {
		quiz.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Subject != nil {
		quiz.Subject = *payload.Subject
	}
	if payload.Branch != nil {
		quiz.Branch = *payload.Branch
	}
	if payload.Semester != nil {
		quiz.Semester = *payload.Semester
	}
	if payload.TotalMarks != nil {
		quiz.TotalMarks = *payload.TotalMarks
	}
	if payload.Duration != nil {
		quiz.Duration = *payload.Duration
	}
	if payload.DueDate != nil {
		dueDate, err := parseDueDate(*payload.DueDate)
		if err != nil {
			return dto.QuizResponse{}, err
		}
		quiz.DueDate = dueDate
	}
	if payload.AssessmentType != nil {
		quiz.AssessmentType = assessmentTypeOrDefault(*payload.AssessmentType)
	}
	if payload.Status != nil {
		target := models.QuizStatus(*payload.Status)
		if target != quiz.Status {
			if !quiz.Status.CanTransition(target) {
				return dto.QuizResponse{}, ErrQuizStateConflict
			}
			if target == models.QuizStatusPublished && len(quiz.Questions) == 0 {
				return dto.QuizResponse{}, ErrQuizNoQuestions
			}
			quiz.Status = target
		}
	}

	if err := s.quizzes.Update(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Str("status", string(quiz.Status)).Msg("quiz updated")

	return dto.NewQuizResponse(quiz), nil
}

// Delete removes the quiz, its questions, and all attempts against it.
func (s *quizService) Delete(ctx context.Context, id uint) error {
	if err := s.quizzes.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuizNotFound
		}
		return err
	}

	s.logger.Info().Uint("quiz_id", id).Msg("quiz deleted with questions and attempts")
	return nil
}

func (s *quizService) AddQuestion(ctx context.Context, quizID uint, payload dto.QuestionCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.getEditableQuiz(ctx, quizID)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	question, err := s.buildQuestion(quizID, payload)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	if err := s.quizzes.CreateQuestion(ctx, &question); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Uint("question_id", question.ID).Msg("question added")

	return s.refreshTotalMarks(ctx, quizID)
}

func (s *quizService) UpdateQuestion(ctx context.Context, quizID, questionID uint, payload dto.QuestionCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.getEditableQuiz(ctx, quizID)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	existing, ok := quiz.QuestionByID(questionID)
	if !ok {
		return dto.QuizResponse{}, ErrQuestionNotFound
	}

	question, err := s.buildQuestion(quizID, payload)
	if err != nil {
		return dto.QuizResponse{}, err
	}
	question.ID = existing.ID
	question.CreatedAt = existing.CreatedAt

	if err := s.quizzes.UpdateQuestion(ctx, &question); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quizID).Uint("question_id", questionID).Msg("question updated")

	return s.refreshTotalMarks(ctx, quizID)
}

func (s *quizService) DeleteQuestion(ctx context.Context, quizID, questionID uint) (dto.QuizResponse, error) {
	if _, err := s.getEditableQuiz(ctx, quizID); err != nil {
		return dto.QuizResponse{}, err
	}

	if err := s.quizzes.DeleteQuestion(ctx, quizID, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuestionNotFound
		}
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quizID).Uint("question_id", questionID).Msg("question deleted")

	return s.refreshTotalMarks(ctx, quizID)
}

func (s *quizService) GenerateQuestions(ctx context.Context, quizID uint, payload dto.GenerateQuestionsRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.getEditableQuiz(ctx, quizID)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	request := ai.QuestionRequest{
		Subject:    quiz.Subject,
		Topic:      payload.Topic,
		Count:      payload.Count,
		Difficulty: payload.Difficulty,
		MarksEach:  payload.MarksEach,
	}

	drafts, err := s.generate(ctx, request)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	for _, draft := range drafts {
		options := make([]models.Option, 0, len(draft.Options))
		for _, text := range draft.Options {
			options = append(options, models.Option{
				Text:      text,
				IsCorrect: text == draft.CorrectAnswer,
			})
		}

		question := models.Question{
			QuizID:        quizID,
			Text:          s.sanitizer.Sanitize(draft.Text),
			CorrectAnswer: draft.CorrectAnswer,
			Marks:         draft.Marks,
			Difficulty:    draft.Difficulty,
		}
		question.SetOptions(options)

		if err := s.quizzes.CreateQuestion(ctx, &question); err != nil {
			return dto.QuizResponse{}, err
		}
	}

	s.logger.Info().Uint("quiz_id", quizID).Int("count", len(drafts)).Msg("questions generated")

	return s.refreshTotalMarks(ctx, quizID)
}

func (s *quizService) generate(ctx context.Context, request ai.QuestionRequest) ([]ai.QuestionDraft, error) {
	if s.generator != nil {
		drafts, err := s.generator.Generate(ctx, request)
		if err == nil && len(drafts) > 0 {
			return drafts, nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("question generation failed, using fallback templates")
		}
	}

	return s.fallback.Generate(ctx, request)
}

func (s *quizService) getQuiz(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, ErrQuizNotFound
		}
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (s *quizService) getEditableQuiz(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, err := s.getQuiz(ctx, id)
	if err != nil {
		return models.Quiz{}, err
	}
	if quiz.Status != models.QuizStatusDraft {
		return models.Quiz{}, ErrQuizNotEditable
	}
	return quiz, nil
}

func (s *quizService) buildQuestion(quizID uint, payload dto.QuestionCreateRequest) (models.Question, error) {
	options := make([]models.Option, 0, len(payload.Options))
	matched := false
	for _, option := range payload.Options {
		isCorrect := option.Text == payload.CorrectAnswer
		matched = matched || isCorrect
		options = append(options, models.Option{Text: option.Text, IsCorrect: isCorrect})
	}
	if !matched {
		return models.Question{}, ErrCorrectAnswerMismatch
	}

	question := models.Question{
		QuizID:        quizID,
		Text:          s.sanitizer.Sanitize(payload.Text),
		CorrectAnswer: payload.CorrectAnswer,
		Marks:         payload.Marks,
		Difficulty:    payload.Difficulty,
	}
	question.SetOptions(options)

	return question, nil
}

// refreshTotalMarks keeps the quiz total in sync with the sum of its
// question marks after any question mutation.
func (s *quizService) refreshTotalMarks(ctx context.Context, quizID uint) (dto.QuizResponse, error) {
	quiz, err := s.getQuiz(ctx, quizID)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	var total float64
	for _, question := range quiz.Questions {
		total += question.Marks
	}

	if total != quiz.TotalMarks && len(quiz.Questions) > 0 {
		quiz.TotalMarks = total
		if err := s.quizzes.Update(ctx, &quiz); err != nil {
			return dto.QuizResponse{}, fmt.Errorf("failed to refresh quiz total: %w", err)
		}
	}

	return dto.NewQuizResponse(quiz), nil
}
