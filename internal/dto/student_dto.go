package dto

import (
	"time"

	"github.com/gradehub/gradehub-api/internal/models"
)

// StudentCreateRequest registers a new student.
type StudentCreateRequest struct {
	EnrollmentNo string `json:"enrollment_no" validate:"required,min=3"`
	Name         string `json:"name" validate:"required,min=2"`
	Email        string `json:"email" validate:"required,email"`
	Branch       string `json:"branch" validate:"required"`
	Semester     int    `json:"semester" validate:"required,gte=1,lte=8"`
	Password     string `json:"password" validate:"required,min=8"`
}

// StudentUpdateRequest patches a student profile; nil fields are untouched.
type StudentUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Branch   *string `json:"branch"`
	Semester *int    `json:"semester" validate:"omitempty,gte=1,lte=8"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Branch   *string `query:"branch"`
	Semester *int    `query:"semester" validate:"omitempty,gte=1,lte=8"`
}

// StudentResponse is the full student profile returned to clients.
type StudentResponse struct {
	ID           uint      `json:"id"`
	EnrollmentNo string    `json:"enrollment_no"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Branch       string    `json:"branch"`
	Semester     int       `json:"semester"`
	AvatarURL    string    `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewStudentResponse converts a Student model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:           model.ID,
		EnrollmentNo: model.EnrollmentNo,
		Name:         model.Name,
		Email:        model.Email,
		Branch:       model.Branch,
		Semester:     model.Semester,
		AvatarURL:    model.AvatarURL,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewStudentResponseSlice converts student models into DTOs.
func NewStudentResponseSlice(items []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewStudentResponse(item))
	}

	return responses
}
