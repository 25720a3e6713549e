package dto

import (
	"time"

	"github.com/gradehub/gradehub-api/internal/models"
)

// AttemptStartRequest begins (or resumes) a quiz attempt.
type AttemptStartRequest struct {
	QuizID    uint `json:"quiz_id" validate:"required,gt=0"`
	StudentID uint `json:"student_id" validate:"required,gt=0"`
}

// AttemptAnswerRequest records one answer inside an in-progress attempt.
type AttemptAnswerRequest struct {
	QuestionID     uint   `json:"question_id" validate:"required,gt=0"`
	SelectedAnswer string `json:"selected_answer" validate:"required"`
}

// AttemptResponse is the student view of an attempt in flight.
type AttemptResponse struct {
	ID        uint                      `json:"id"`
	QuizID    uint                      `json:"quiz_id"`
	StudentID uint                      `json:"student_id"`
	StartedAt time.Time                 `json:"started_at"`
	EndedAt   *time.Time                `json:"ended_at"`
	Status    string                    `json:"status"`
	Answered  []uint                    `json:"answered_question_ids"`
	Questions []AttemptQuestionResponse `json:"questions"`
}

// AttemptResultResponse summarizes a completed attempt.
type AttemptResultResponse struct {
	SubmissionID       uint    `json:"submission_id"`
	TotalQuestions     int     `json:"total_questions"`
	AnsweredQuestions  int     `json:"answered_questions"`
	CorrectAnswers     int     `json:"correct_answers"`
	TotalMarksObtained float64 `json:"total_marks_obtained"`
	Percentage         float64 `json:"percentage"`
}

// NewAttemptResponse converts a QuizSubmission into the student DTO. The
// quiz questions are rendered without correctness information.
func NewAttemptResponse(model models.QuizSubmission, quiz models.Quiz) AttemptResponse {
	answers := model.AnswerList()
	answered := make([]uint, 0, len(answers))
	for _, answer := range answers {
		answered = append(answered, answer.QuestionID)
	}

	return AttemptResponse{
		ID:        model.ID,
		QuizID:    model.QuizID,
		StudentID: model.StudentID,
		StartedAt: model.StartedAt,
		EndedAt:   model.EndedAt,
		Status:    string(model.Status),
		Answered:  answered,
		Questions: NewAttemptQuestionResponses(quiz.Questions),
	}
}
