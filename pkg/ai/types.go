package ai

import "context"

// QuestionRequest describes the quiz context for question generation.
type QuestionRequest struct {
	Subject    string
	Topic      string
	Count      int
	Difficulty string
	MarksEach  float64
}

// QuestionDraft is one generated multiple-choice question before it is
// attached to a quiz.
type QuestionDraft struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Difficulty    string   `json:"difficulty"`
	Marks         float64  `json:"marks"`
}

// Generator produces quiz question drafts.
type Generator interface {
	Generate(ctx context.Context, req QuestionRequest) ([]QuestionDraft, error)
}
