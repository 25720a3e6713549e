package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// QuizStatus is the publication state of a quiz.
type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "draft"
	QuizStatusPublished QuizStatus = "published"
	QuizStatusClosed    QuizStatus = "closed"
)

// CanTransition reports whether a quiz may move from its current status to
// the target. Draft quizzes are published, published quizzes are closed;
// there is no way back.
func (s QuizStatus) CanTransition(to QuizStatus) bool {
	switch s {
	case QuizStatusDraft:
		return to == QuizStatusPublished
	case QuizStatusPublished:
		return to == QuizStatusClosed
	}
	return false
}

// Quiz represents a timed, auto-graded assessment with an ordered question list.
type Quiz struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Subject        string         `gorm:"size:128;not null;index" json:"subject"`
	Branch         string         `gorm:"size:64;index" json:"branch"`
	Semester       int            `gorm:"index" json:"semester"`
	TotalMarks     float64        `gorm:"not null" json:"total_marks"`
	Duration       int            `json:"duration"` // minutes
	DueDate        time.Time      `gorm:"not null" json:"due_date"`
	AssessmentType AssessmentType `gorm:"size:16;default:Other" json:"assessment_type"`
	CreatedBy      uint           `gorm:"index" json:"created_by"`
	Status         QuizStatus     `gorm:"size:16;default:draft;index" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Questions      []Question     `gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions"`
}

// IsPastDue returns true when the quiz deadline has already passed.
func (q Quiz) IsPastDue(reference time.Time) bool {
	return reference.After(q.DueDate)
}

// QuestionByID finds a question by its identifier.
func (q Quiz) QuestionByID(id uint) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// Question is a single multiple-choice quiz question.
type Question struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	QuizID        uint           `gorm:"not null;index" json:"quiz_id"`
	Text          string         `gorm:"type:text;not null" json:"text"`
	Options       datatypes.JSON `gorm:"type:json" json:"-"`
	CorrectAnswer string         `gorm:"size:512;not null" json:"-"`
	Marks         float64        `gorm:"not null" json:"marks"`
	Difficulty    string         `gorm:"size:16" json:"difficulty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Option is one selectable answer for a question.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// SetOptions serializes the option list into the JSON storage column.
func (q *Question) SetOptions(options []Option) {
	data, err := json.Marshal(options)
	if err != nil {
		q.Options = datatypes.JSON([]byte("[]"))
		return
	}
	q.Options = datatypes.JSON(data)
}

// OptionList deserializes the stored options into a Go slice.
func (q Question) OptionList() []Option {
	if len(q.Options) == 0 {
		return nil
	}

	var options []Option
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}

	return options
}
