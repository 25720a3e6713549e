package handler_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/gradehub/gradehub-api/internal/dto"
)

func createTestQuiz(t *testing.T, app *fiber.App, title string) dto.QuizResponse {
	t.Helper()

	req := jsonRequest(t, "POST", "/api/v1/quizzes", dto.QuizCreateRequest{
		Title:          title,
		Subject:        "Computer Networks",
		Branch:         "CSE",
		Semester:       5,
		TotalMarks:     10,
		Duration:       30,
		DueDate:        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		AssessmentType: "ISA1",
		CreatedBy:      1,
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool             `json:"success"`
		Data    dto.QuizResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "quiz created", body.Message)
	require.Equal(t, "draft", body.Data.Status)
	return body.Data
}

func addTestQuestion(t *testing.T, app *fiber.App, quizID uint, text, correct string, marks float64) dto.QuizResponse {
	t.Helper()

	req := jsonRequest(t, "POST", "/api/v1/quizzes/"+uintField(quizID)+"/questions", dto.QuestionCreateRequest{
		Text: text,
		Options: []dto.OptionPayload{
			{Text: correct},
			{Text: "Neither of these"},
		},
		CorrectAnswer: correct,
		Marks:         marks,
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Data dto.QuizResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	return body.Data
}

func publishTestQuiz(t *testing.T, app *fiber.App, quizID uint) {
	t.Helper()

	status := "published"
	req := jsonRequest(t, "PATCH", "/api/v1/quizzes/"+uintField(quizID), dto.QuizUpdateRequest{Status: &status})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestQuizHandlerPublishWithoutQuestions(t *testing.T) {
	app, _ := setupApp(t)

	quiz := createTestQuiz(t, app, "Empty Quiz")

	status := "published"
	req := jsonRequest(t, "PATCH", "/api/v1/quizzes/"+uintField(quiz.ID), dto.QuizUpdateRequest{Status: &status})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestQuizHandlerQuestionEditAfterPublish(t *testing.T) {
	app, _ := setupApp(t)

	quiz := createTestQuiz(t, app, "Locked Quiz")
	addTestQuestion(t, app, quiz.ID, "What does IP stand for?", "Internet Protocol", 2)
	publishTestQuiz(t, app, quiz.ID)

	req := jsonRequest(t, "POST", "/api/v1/quizzes/"+uintField(quiz.ID)+"/questions", dto.QuestionCreateRequest{
		Text:          "What does DNS resolve?",
		Options:       []dto.OptionPayload{{Text: "Names to addresses"}, {Text: "Addresses to routes"}},
		CorrectAnswer: "Names to addresses",
		Marks:         2,
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestQuizHandlerGenerateQuestions(t *testing.T) {
	app, _ := setupApp(t)

	quiz := createTestQuiz(t, app, "Generated Quiz")

	req := jsonRequest(t, "POST", "/api/v1/quizzes/"+uintField(quiz.ID)+"/questions/generate", dto.GenerateQuestionsRequest{
		Topic:     "Routing",
		Count:     3,
		MarksEach: 2,
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Data dto.QuizResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Len(t, body.Data.Questions, 3)
	require.Equal(t, 6.0, body.Data.TotalMarks)
}

func TestQuizHandlerAttemptLifecycle(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudent(t, db, "1DS21CS101")

	quiz := createTestQuiz(t, app, "Attempt Lifecycle Quiz")
	addTestQuestion(t, app, quiz.ID, "What does TCP stand for?", "Transmission Control Protocol", 2)
	withQuestions := addTestQuestion(t, app, quiz.ID, "Which layer routes packets?", "Network", 2)
	require.Len(t, withQuestions.Questions, 2)
	publishTestQuiz(t, app, quiz.ID)

	startReq := jsonRequest(t, "POST", "/api/v1/quiz-attempts", dto.AttemptStartRequest{
		QuizID:    quiz.ID,
		StudentID: student.ID,
	})
	startResp, err := app.Test(startReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, startResp.StatusCode)

	var startBody struct {
		Data dto.AttemptResponse `json:"data"`
	}
	decodeResponse(t, startResp, &startBody)
	attempt := startBody.Data
	require.Equal(t, "in_progress", attempt.Status)
	require.Len(t, attempt.Questions, 2)

	for _, question := range withQuestions.Questions {
		answerReq := jsonRequest(t, "POST", "/api/v1/quiz-attempts/"+uintField(attempt.ID)+"/answers", dto.AttemptAnswerRequest{
			QuestionID:     question.ID,
			SelectedAnswer: question.CorrectAnswer,
		})
		answerResp, err := app.Test(answerReq)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, answerResp.StatusCode)
	}

	completeReq := jsonRequest(t, "POST", "/api/v1/quiz-attempts/"+uintField(attempt.ID)+"/complete", nil)
	completeResp, err := app.Test(completeReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, completeResp.StatusCode)

	var completeBody struct {
		Data dto.AttemptResultResponse `json:"data"`
	}
	decodeResponse(t, completeResp, &completeBody)
	require.Equal(t, 2, completeBody.Data.CorrectAnswers)
	require.Equal(t, 4.0, completeBody.Data.TotalMarksObtained)
	require.Equal(t, 100.0, completeBody.Data.Percentage)

	retakeReq := jsonRequest(t, "POST", "/api/v1/quiz-attempts", dto.AttemptStartRequest{
		QuizID:    quiz.ID,
		StudentID: student.ID,
	})
	retakeResp, err := app.Test(retakeReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, retakeResp.StatusCode)

	marksReq := jsonRequest(t, "GET", "/api/v1/marks/1DS21CS101", nil)
	marksResp, err := app.Test(marksReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, marksResp.StatusCode)

	var marksBody struct {
		Data dto.MarksResponse `json:"data"`
	}
	decodeResponse(t, marksResp, &marksBody)
	require.Len(t, marksBody.Data.Quizzes, 1)
	require.Equal(t, quiz.ID, marksBody.Data.Quizzes[0].AssessmentID)
	require.Equal(t, 4.0, marksBody.Data.ISA1["Computer Networks"])
}

func TestQuizHandlerResultHiddenWhileInProgress(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudent(t, db, "1DS21CS102")

	quiz := createTestQuiz(t, app, "Result Gate Quiz")
	addTestQuestion(t, app, quiz.ID, "What does UDP lack?", "Delivery guarantees", 2)
	publishTestQuiz(t, app, quiz.ID)

	startReq := jsonRequest(t, "POST", "/api/v1/quiz-attempts", dto.AttemptStartRequest{
		QuizID:    quiz.ID,
		StudentID: student.ID,
	})
	startResp, err := app.Test(startReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, startResp.StatusCode)

	var startBody struct {
		Data dto.AttemptResponse `json:"data"`
	}
	decodeResponse(t, startResp, &startBody)

	resultReq := jsonRequest(t, "GET", "/api/v1/quiz-attempts/"+uintField(startBody.Data.ID)+"/result", nil)
	resultResp, err := app.Test(resultReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resultResp.StatusCode)
}
