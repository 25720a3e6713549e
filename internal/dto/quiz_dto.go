package dto

import (
	"time"

	"github.com/gradehub/gradehub-api/internal/models"
)

// QuizCreateRequest describes the payload for creating a quiz. Quizzes
// always start in draft with no questions.
type QuizCreateRequest struct {
	Title          string  `json:"title" validate:"required,min=3"`
	Description    string  `json:"description"`
	Subject        string  `json:"subject" validate:"required"`
	Branch         string  `json:"branch" validate:"required"`
	Semester       int     `json:"semester" validate:"required,gte=1,lte=8"`
	TotalMarks     float64 `json:"total_marks" validate:"required,gt=0"`
	Duration       int     `json:"duration" validate:"required,gt=0"`
	DueDate        string  `json:"due_date" validate:"required"`
	AssessmentType string  `json:"assessment_type" validate:"omitempty,oneof=ISA1 ISA2 ESA Other"`
	CreatedBy      uint    `json:"created_by" validate:"required,gt=0"`
}

// QuizUpdateRequest patches a quiz; nil fields are untouched.
type QuizUpdateRequest struct {
	Title          *string  `json:"title" validate:"omitempty,min=3"`
	Description    *string  `json:"description"`
	Subject        *string  `json:"subject"`
	Branch         *string  `json:"branch"`
	Semester       *int     `json:"semester" validate:"omitempty,gte=1,lte=8"`
	TotalMarks     *float64 `json:"total_marks" validate:"omitempty,gt=0"`
	Duration       *int     `json:"duration" validate:"omitempty,gt=0"`
	DueDate        *string  `json:"due_date"`
	AssessmentType *string  `json:"assessment_type" validate:"omitempty,oneof=ISA1 ISA2 ESA Other"`
	Status         *string  `json:"status" validate:"omitempty,oneof=draft published closed"`
}

// QuizFilter narrows quiz listings. Unset fields match everything.
type QuizFilter struct {
	Branch    *string `query:"branch"`
	Semester  *int    `query:"semester" validate:"omitempty,gte=1,lte=8"`
	Subject   *string `query:"subject"`
	CreatedBy *uint   `query:"created_by"`
	Status    *string `query:"status" validate:"omitempty,oneof=draft published closed"`
}

// QuestionCreateRequest adds one question to a draft quiz.
type QuestionCreateRequest struct {
	Text          string          `json:"text" validate:"required,min=3"`
	Options       []OptionPayload `json:"options" validate:"required,min=2,dive"`
	CorrectAnswer string          `json:"correct_answer" validate:"required"`
	Marks         float64         `json:"marks" validate:"required,gt=0"`
	Difficulty    string          `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// OptionPayload is one selectable answer in a question payload.
type OptionPayload struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// GenerateQuestionsRequest asks for AI-authored questions for a quiz.
type GenerateQuestionsRequest struct {
	Topic      string  `json:"topic"`
	Count      int     `json:"count" validate:"required,gte=1,lte=20"`
	Difficulty string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	MarksEach  float64 `json:"marks_each" validate:"required,gt=0"`
}

// QuizResponse is the faculty view of a quiz, answers included.
type QuizResponse struct {
	ID             uint               `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Subject        string             `json:"subject"`
	Branch         string             `json:"branch"`
	Semester       int                `json:"semester"`
	TotalMarks     float64            `json:"total_marks"`
	Duration       int                `json:"duration"`
	DueDate        time.Time          `json:"due_date"`
	AssessmentType string             `json:"assessment_type"`
	CreatedBy      uint               `json:"created_by"`
	Status         string             `json:"status"`
	Questions      []QuestionResponse `json:"questions"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// QuestionResponse is the faculty view of one question.
type QuestionResponse struct {
	ID            uint             `json:"id"`
	Text          string           `json:"text"`
	Options       []OptionResponse `json:"options"`
	CorrectAnswer string           `json:"correct_answer"`
	Marks         float64          `json:"marks"`
	Difficulty    string           `json:"difficulty"`
}

// OptionResponse is one option with its correctness flag.
type OptionResponse struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// AttemptQuestionResponse is the student view of one question: the identity
// of the correct answer is never exposed mid-attempt.
type AttemptQuestionResponse struct {
	ID         uint     `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Marks      float64  `json:"marks"`
	Difficulty string   `json:"difficulty"`
}

// NewQuizResponse converts a Quiz model into the faculty DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	questions := make([]QuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		questions = append(questions, NewQuestionResponse(question))
	}

	return QuizResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		Subject:        model.Subject,
		Branch:         model.Branch,
		Semester:       model.Semester,
		TotalMarks:     model.TotalMarks,
		Duration:       model.Duration,
		DueDate:        model.DueDate,
		AssessmentType: string(model.AssessmentType),
		CreatedBy:      model.CreatedBy,
		Status:         string(model.Status),
		Questions:      questions,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewQuizResponseSlice converts quiz models into DTOs.
func NewQuizResponseSlice(items []models.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewQuizResponse(item))
	}

	return responses
}

// NewQuestionResponse converts a Question model into the faculty DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	options := model.OptionList()
	optionResponses := make([]OptionResponse, 0, len(options))
	for _, option := range options {
		optionResponses = append(optionResponses, OptionResponse{Text: option.Text, IsCorrect: option.IsCorrect})
	}

	return QuestionResponse{
		ID:            model.ID,
		Text:          model.Text,
		Options:       optionResponses,
		CorrectAnswer: model.CorrectAnswer,
		Marks:         model.Marks,
		Difficulty:    model.Difficulty,
	}
}

// NewAttemptQuestionResponses converts questions into the student view,
// stripping every hint of which option is correct.
func NewAttemptQuestionResponses(questions []models.Question) []AttemptQuestionResponse {
	responses := make([]AttemptQuestionResponse, 0, len(questions))
	for _, question := range questions {
		options := question.OptionList()
		texts := make([]string, 0, len(options))
		for _, option := range options {
			texts = append(texts, option.Text)
		}

		responses = append(responses, AttemptQuestionResponse{
			ID:         question.ID,
			Text:       question.Text,
			Options:    texts,
			Marks:      question.Marks,
			Difficulty: question.Difficulty,
		})
	}

	return responses
}
