package ai

import (
	"context"
	"fmt"
)

// FallbackGenerator produces questions from a local template bank. It backs
// the OpenAI generator so question authoring still works when the external
// service is unreachable.
type FallbackGenerator struct{}

// NewFallbackGenerator constructs the template-bank generator.
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

var fallbackTemplates = []struct {
	text    string
	options [4]string
	correct int
}{
	{
		text:    "Which of the following best describes the primary focus of %s?",
		options: [4]string{"Its core concepts and principles", "Unrelated historical trivia", "Marketing terminology", "None of the above"},
		correct: 0,
	},
	{
		text:    "Which statement about %s is correct?",
		options: [4]string{"It has no practical applications", "It is studied as part of the curriculum", "It was deprecated decades ago", "It cannot be assessed"},
		correct: 1,
	},
	{
		text:    "A student revising %s should start with which of these?",
		options: [4]string{"Advanced research papers", "Unrelated subjects", "The fundamental definitions", "Skipping the topic entirely"},
		correct: 2,
	},
	{
		text:    "Which of the following is an expected learning outcome of %s?",
		options: [4]string{"Memorizing page numbers", "Ignoring the syllabus", "Avoiding examinations", "Understanding the key ideas"},
		correct: 3,
	},
}

// Generate builds deterministic placeholder questions for the subject.
func (g *FallbackGenerator) Generate(_ context.Context, req QuestionRequest) ([]QuestionDraft, error) {
	count := req.Count
	if count <= 0 {
		count = 1
	}

	subject := req.Subject
	if req.Topic != "" {
		subject = fmt.Sprintf("%s (%s)", req.Subject, req.Topic)
	}

	drafts := make([]QuestionDraft, 0, count)
	for i := 0; i < count; i++ {
		template := fallbackTemplates[i%len(fallbackTemplates)]
		options := template.options

		drafts = append(drafts, QuestionDraft{
			Text:          fmt.Sprintf(template.text, subject),
			Options:       options[:],
			CorrectAnswer: options[template.correct],
			Difficulty:    req.Difficulty,
			Marks:         req.MarksEach,
		})
	}

	return drafts, nil
}
