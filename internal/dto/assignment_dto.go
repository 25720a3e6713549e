package dto

import (
	"time"

	"github.com/gradehub/gradehub-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating an assignment.
type AssignmentCreateRequest struct {
	Title          string  `json:"title" form:"title" validate:"required,min=3"`
	Description    string  `json:"description" form:"description"`
	Subject        string  `json:"subject" form:"subject" validate:"required"`
	Branch         string  `json:"branch" form:"branch" validate:"required"`
	Semester       int     `json:"semester" form:"semester" validate:"required,gte=1,lte=8"`
	TotalMarks     float64 `json:"total_marks" form:"total_marks" validate:"required,gt=0"`
	DueDate        string  `json:"due_date" form:"due_date" validate:"required"`
	AssessmentType string  `json:"assessment_type" form:"assessment_type" validate:"omitempty,oneof=ISA1 ISA2 ESA Other"`
	CreatedBy      uint    `json:"created_by" form:"created_by" validate:"required,gt=0"`
}

// AssignmentUpdateRequest patches an assignment; nil fields are untouched.
type AssignmentUpdateRequest struct {
	Title          *string  `json:"title" validate:"omitempty,min=3"`
	Description    *string  `json:"description"`
	Subject        *string  `json:"subject"`
	Branch         *string  `json:"branch"`
	Semester       *int     `json:"semester" validate:"omitempty,gte=1,lte=8"`
	TotalMarks     *float64 `json:"total_marks" validate:"omitempty,gt=0"`
	DueDate        *string  `json:"due_date"`
	AssessmentType *string  `json:"assessment_type" validate:"omitempty,oneof=ISA1 ISA2 ESA Other"`
}

// AssignmentFilter narrows assignment listings. Unset fields match everything.
type AssignmentFilter struct {
	Branch    *string `query:"branch"`
	Semester  *int    `query:"semester" validate:"omitempty,gte=1,lte=8"`
	Subject   *string `query:"subject"`
	CreatedBy *uint   `query:"created_by"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Subject        string    `json:"subject"`
	Branch         string    `json:"branch"`
	Semester       int       `json:"semester"`
	TotalMarks     float64   `json:"total_marks"`
	DueDate        time.Time `json:"due_date"`
	AssessmentType string    `json:"assessment_type"`
	CreatedBy      uint      `json:"created_by"`
	FileURL        string    `json:"file_url"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		Subject:        model.Subject,
		Branch:         model.Branch,
		Semester:       model.Semester,
		TotalMarks:     model.TotalMarks,
		DueDate:        model.DueDate,
		AssessmentType: string(model.AssessmentType),
		CreatedBy:      model.CreatedBy,
		FileURL:        model.FileURL,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(items []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewAssignmentResponse(item))
	}

	return responses
}
