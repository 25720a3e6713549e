package dto

import (
	"time"

	"github.com/gradehub/gradehub-api/internal/models"
)

// MarksQueryRequest fetches one student's marks document.
type MarksQueryRequest struct {
	EnrollmentNo string `json:"enrollment_no" validate:"required"`
}

// MarksPatchRequest applies direct bucket patches for a student. Each map
// merges into the corresponding bucket, overwriting per subject.
type MarksPatchRequest struct {
	EnrollmentNo string             `json:"enrollment_no" validate:"required"`
	ISA1         map[string]float64 `json:"isa1"`
	ISA2         map[string]float64 `json:"isa2"`
	ESA          map[string]float64 `json:"esa"`
}

// MarksResponse is the aggregate marks document returned to clients.
type MarksResponse struct {
	EnrollmentNo string                 `json:"enrollment_no"`
	ISA1         map[string]float64     `json:"isa1"`
	ISA2         map[string]float64     `json:"isa2"`
	ESA          map[string]float64     `json:"esa"`
	Assignments  []MarksEntryResponse   `json:"assignments"`
	Quizzes      []MarksEntryResponse   `json:"quizzes"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// MarksEntryResponse is one rolled-up assessment result.
type MarksEntryResponse struct {
	AssessmentID uint      `json:"assessment_id"`
	Title        string    `json:"title"`
	Subject      string    `json:"subject"`
	Marks        float64   `json:"marks"`
	TotalMarks   float64   `json:"total_marks"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// NewMarksResponse converts a Marks model into a DTO.
func NewMarksResponse(model models.Marks) MarksResponse {
	return MarksResponse{
		EnrollmentNo: model.EnrollmentNo,
		ISA1:         model.Bucket(models.AssessmentTypeISA1),
		ISA2:         model.Bucket(models.AssessmentTypeISA2),
		ESA:          model.Bucket(models.AssessmentTypeESA),
		Assignments:  newMarksEntries(model.Entries(models.KindAssignment)),
		Quizzes:      newMarksEntries(model.Entries(models.KindQuiz)),
		UpdatedAt:    model.UpdatedAt,
	}
}

func newMarksEntries(entries []models.AssessmentEntry) []MarksEntryResponse {
	responses := make([]MarksEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, MarksEntryResponse{
			AssessmentID: entry.AssessmentID,
			Title:        entry.Title,
			Subject:      entry.Subject,
			Marks:        entry.Marks,
			TotalMarks:   entry.TotalMarks,
			SubmittedAt:  entry.SubmittedAt,
		})
	}

	return responses
}
