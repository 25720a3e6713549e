package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// QuizSubmissionStatus is the lifecycle state of a quiz attempt.
type QuizSubmissionStatus string

const (
	QuizSubmissionInProgress QuizSubmissionStatus = "in_progress"
	QuizSubmissionCompleted  QuizSubmissionStatus = "completed"
	QuizSubmissionEvaluated  QuizSubmissionStatus = "evaluated"
)

// CanTransition reports whether an attempt may move to the target status.
// The machine only walks forward: in_progress -> completed -> evaluated.
func (s QuizSubmissionStatus) CanTransition(to QuizSubmissionStatus) bool {
	switch s {
	case QuizSubmissionInProgress:
		return to == QuizSubmissionCompleted
	case QuizSubmissionCompleted:
		return to == QuizSubmissionEvaluated
	}
	return false
}

// QuizAnswer records a student's response to one question.
type QuizAnswer struct {
	QuestionID     uint    `json:"question_id"`
	SelectedAnswer string  `json:"selected_answer"`
	IsCorrect      bool    `json:"is_correct"`
	MarksObtained  float64 `json:"marks_obtained"`
}

// QuizSubmission is a student's attempt against one quiz. At most one row
// exists per (quiz, student) pair; there are no retakes.
type QuizSubmission struct {
	ID                 uint                 `gorm:"primaryKey" json:"id"`
	QuizID             uint                 `gorm:"not null;uniqueIndex:idx_quiz_submission_quiz_student" json:"quiz_id"`
	StudentID          uint                 `gorm:"not null;uniqueIndex:idx_quiz_submission_quiz_student" json:"student_id"`
	StartedAt          time.Time            `json:"started_at"`
	EndedAt            *time.Time           `json:"ended_at"`
	Answers            datatypes.JSON       `gorm:"type:json" json:"-"`
	TotalMarksObtained float64              `json:"total_marks_obtained"`
	Status             QuizSubmissionStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
	Quiz               Quiz                 `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"quiz"`
	Student            Student              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// AnswerList deserializes the recorded answers.
func (s QuizSubmission) AnswerList() []QuizAnswer {
	if len(s.Answers) == 0 {
		return nil
	}

	var answers []QuizAnswer
	if err := json.Unmarshal(s.Answers, &answers); err != nil {
		return nil
	}

	return answers
}

// SetAnswers serializes the answer list into the JSON storage column.
func (s *QuizSubmission) SetAnswers(answers []QuizAnswer) {
	data, err := json.Marshal(answers)
	if err != nil {
		s.Answers = datatypes.JSON([]byte("[]"))
		return
	}
	s.Answers = datatypes.JSON(data)
}

// UpsertAnswer records an answer keyed by question. Re-answering a question
// overwrites the earlier entry instead of appending a duplicate.
func (s *QuizSubmission) UpsertAnswer(answer QuizAnswer) {
	answers := s.AnswerList()
	for i, existing := range answers {
		if existing.QuestionID == answer.QuestionID {
			answers[i] = answer
			s.SetAnswers(answers)
			return
		}
	}
	s.SetAnswers(append(answers, answer))
}

// ObtainedMarks sums the marks across all recorded answers. Unanswered
// questions contribute nothing.
func (s QuizSubmission) ObtainedMarks() float64 {
	var total float64
	for _, answer := range s.AnswerList() {
		total += answer.MarksObtained
	}
	return total
}

// CorrectCount returns how many recorded answers were correct.
func (s QuizSubmission) CorrectCount() int {
	var count int
	for _, answer := range s.AnswerList() {
		if answer.IsCorrect {
			count++
		}
	}
	return count
}
