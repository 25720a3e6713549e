package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
)

type attemptFixture struct {
	svc      QuizAttemptService
	quizzes  *memoryQuizRepo
	students *memoryStudentRepo
	attempts *memoryAttemptRepo
	marks    *memoryMarksRepo
	events   *capturingPublisher
}

func newAttemptFixture(t *testing.T) attemptFixture {
	t.Helper()

	quizzes := newMemoryQuizRepo()
	students := newMemoryStudentRepo()
	attempts := newMemoryAttemptRepo(quizzes, students)
	marksRepo := newMemoryMarksRepo()
	events := &capturingPublisher{}

	validate := validator.New(validator.WithRequiredStructEnabled())
	marksService := NewMarksService(marksRepo, nil, time.Minute, validate, testLogger())
	svc := NewQuizAttemptService(attempts, quizzes, students, marksService, events, validate, testLogger())

	student := models.Student{EnrollmentNo: "1DS21CS001", Name: "Asha", Email: "asha@example.com"}
	require.NoError(t, students.Create(context.Background(), &student))

	return attemptFixture{
		svc:      svc,
		quizzes:  quizzes,
		students: students,
		attempts: attempts,
		marks:    marksRepo,
		events:   events,
	}
}

func (f attemptFixture) createQuiz(t *testing.T, status models.QuizStatus, dueIn time.Duration) models.Quiz {
	t.Helper()

	quiz := models.Quiz{
		Title:          "Networks Quiz",
		Subject:        "Computer Networks",
		TotalMarks:     4,
		Duration:       30,
		DueDate:        time.Now().Add(dueIn),
		AssessmentType: models.AssessmentTypeISA1,
		Status:         status,
	}
	require.NoError(t, f.quizzes.Create(context.Background(), &quiz))

	q1 := models.Question{QuizID: quiz.ID, Text: "What does TCP stand for?", CorrectAnswer: "Transmission Control Protocol", Marks: 2}
	q1.SetOptions([]models.Option{
		{Text: "Transmission Control Protocol", IsCorrect: true},
		{Text: "Transfer Control Program"},
	})
	require.NoError(t, f.quizzes.CreateQuestion(context.Background(), &q1))

	q2 := models.Question{QuizID: quiz.ID, Text: "Which layer routes packets?", CorrectAnswer: "Network", Marks: 2}
	q2.SetOptions([]models.Option{
		{Text: "Network", IsCorrect: true},
		{Text: "Session"},
	})
	require.NoError(t, f.quizzes.CreateQuestion(context.Background(), &q2))

	stored, err := f.quizzes.GetByID(context.Background(), quiz.ID)
	require.NoError(t, err)
	return stored
}

func TestQuizAttemptStartRejectsUnpublishedQuiz(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusDraft, time.Hour)

	_, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.ErrorIs(t, err, ErrQuizNotPublished)
}

func TestQuizAttemptStartRejectsExpiredQuiz(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusPublished, -time.Hour)

	_, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.ErrorIs(t, err, ErrQuizExpired)
}

func TestQuizAttemptStartHidesCorrectAnswers(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusPublished, time.Hour)

	attempt, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)
	require.Equal(t, string(models.QuizSubmissionInProgress), attempt.Status)
	require.Len(t, attempt.Questions, 2)
	for _, question := range attempt.Questions {
		require.NotEmpty(t, question.Options)
	}
}

func TestQuizAttemptStartResumesInProgress(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusPublished, time.Hour)

	first, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)

	second, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, f.attempts.attempts, 1)
}

func TestQuizAttemptNoRetakeAfterCompletion(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusPublished, time.Hour)

	attempt, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), attempt.ID)
	require.NoError(t, err)

	_, err = f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.ErrorIs(t, err, ErrAttemptCompleted)
}

func TestQuizAttemptAnswerOverwritesEarlierAnswer(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusPublished, time.Hour)

	attempt, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)

	questionID := quiz.Questions[0].ID

	_, err = f.svc.Answer(context.Background(), attempt.ID, dto.AttemptAnswerRequest{
		QuestionID:     questionID,
		SelectedAnswer: "Transfer Control Program",
	})
	require.NoError(t, err)

	updated, err := f.svc.Answer(context.Background(), attempt.ID, dto.AttemptAnswerRequest{
		QuestionID:     questionID,
		SelectedAnswer: "Transmission Control Protocol",
	})
	require.NoError(t, err)
	require.Len(t, updated.Answered, 1)

	result, err := f.svc.Complete(context.Background(), attempt.ID)
	require.NoError(t, err)
	require.Equal(t, 1, result.CorrectAnswers)
	require.Equal(t, 2.0, result.TotalMarksObtained)
}

func TestQuizAttemptAnswerRejectsForeignQuestion(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusPublished, time.Hour)

	attempt, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)

	_, err = f.svc.Answer(context.Background(), attempt.ID, dto.AttemptAnswerRequest{
		QuestionID:     999,
		SelectedAnswer: "Network",
	})
	require.ErrorIs(t, err, ErrQuestionNotInQuiz)
}

func TestQuizAttemptCompleteTotalsAndRollsUp(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusPublished, time.Hour)

	attempt, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)

	for _, question := range quiz.Questions {
		_, err = f.svc.Answer(context.Background(), attempt.ID, dto.AttemptAnswerRequest{
			QuestionID:     question.ID,
			SelectedAnswer: question.CorrectAnswer,
		})
		require.NoError(t, err)
	}

	result, err := f.svc.Complete(context.Background(), attempt.ID)
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalQuestions)
	require.Equal(t, 2, result.AnsweredQuestions)
	require.Equal(t, 2, result.CorrectAnswers)
	require.Equal(t, 4.0, result.TotalMarksObtained)
	require.Equal(t, 100.0, result.Percentage)

	doc, err := f.marks.GetByEnrollmentNo(context.Background(), "1DS21CS001")
	require.NoError(t, err)
	entries := doc.Entries(models.KindQuiz)
	require.Len(t, entries, 1)
	require.Equal(t, quiz.ID, entries[0].AssessmentID)
	require.Equal(t, 4.0, entries[0].Marks)

	bucket := doc.Bucket(models.AssessmentTypeISA1)
	require.Equal(t, 4.0, bucket["Computer Networks"])

	require.Len(t, f.events.events, 1)
	require.Equal(t, "quiz", f.events.events[0].Kind)
}

func TestQuizAttemptCompleteTwiceRejected(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusPublished, time.Hour)

	attempt, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), attempt.ID)
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), attempt.ID)
	require.ErrorIs(t, err, ErrAttemptCompleted)
}

func TestQuizAttemptAnswerAfterCompletionRejected(t *testing.T) {
	f := newAttemptFixture(t)
	quiz := f.createQuiz(t, models.QuizStatusPublished, time.Hour)

	attempt, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), attempt.ID)
	require.NoError(t, err)

	_, err = f.svc.Answer(context.Background(), attempt.ID, dto.AttemptAnswerRequest{
		QuestionID:     quiz.Questions[0].ID,
		SelectedAnswer: "Network",
	})
	require.ErrorIs(t, err, ErrAttemptCompleted)
}

func TestQuizAttemptPercentageZeroTotal(t *testing.T) {
	f := newAttemptFixture(t)

	quiz := models.Quiz{
		Title:      "Empty total",
		Subject:    "Misc",
		TotalMarks: 0,
		DueDate:    time.Now().Add(time.Hour),
		Status:     models.QuizStatusPublished,
	}
	require.NoError(t, f.quizzes.Create(context.Background(), &quiz))

	attempt, err := f.svc.Start(context.Background(), dto.AttemptStartRequest{QuizID: quiz.ID, StudentID: 1})
	require.NoError(t, err)

	result, err := f.svc.Complete(context.Background(), attempt.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, result.Percentage)
}
