package dto

import (
	"time"

	"github.com/gradehub/gradehub-api/internal/models"
)

// SubmissionCreateRequest describes the multipart payload for submission upload.
type SubmissionCreateRequest struct {
	AssignmentID uint `form:"assignment_id" validate:"required,gt=0"`
	StudentID    uint `form:"student_id" validate:"required,gt=0"`
}

// SubmissionEvaluateRequest is used by faculty to evaluate a submission.
type SubmissionEvaluateRequest struct {
	Marks    *float64 `json:"marks" validate:"required,gte=0"`
	Feedback string   `json:"feedback"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	AssignmentID *uint   `query:"assignment_id"`
	StudentID    *uint   `query:"student_id"`
	Status       *string `query:"status" validate:"omitempty,oneof=submitted late evaluated"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint           `json:"id"`
	AssignmentID uint           `json:"assignment_id"`
	StudentID    uint           `json:"student_id"`
	FileURL      string         `json:"file_url"`
	FileName     string         `json:"file_name"`
	FileType     string         `json:"file_type"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	Marks        *float64       `json:"marks"`
	Feedback     string         `json:"feedback"`
	Status       string         `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Assignment   AssignmentLite `json:"assignment"`
	Student      StudentLite    `json:"student"`
}

// AssignmentLite summarizes an assignment in submission responses.
type AssignmentLite struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	TotalMarks float64   `json:"total_marks"`
	DueDate    time.Time `json:"due_date"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID           uint   `json:"id"`
	EnrollmentNo string `json:"enrollment_no"`
	Name         string `json:"name"`
	Email        string `json:"email"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		FileURL:      model.FileURL,
		FileName:     model.FileName,
		FileType:     model.FileType,
		SubmittedAt:  model.SubmittedAt,
		Marks:        model.Marks,
		Feedback:     model.Feedback,
		Status:       string(model.Status),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:         model.Assignment.ID,
			Title:      model.Assignment.Title,
			Subject:    model.Assignment.Subject,
			TotalMarks: model.Assignment.TotalMarks,
			DueDate:    model.Assignment.DueDate,
		}
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:           model.Student.ID,
			EnrollmentNo: model.Student.EnrollmentNo,
			Name:         model.Student.Name,
			Email:        model.Student.Email,
		}
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(items []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(items))
	for _, submission := range items {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
