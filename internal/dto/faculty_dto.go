package dto

import (
	"time"

	"github.com/gradehub/gradehub-api/internal/models"
)

// FacultyCreateRequest registers a new faculty member.
type FacultyCreateRequest struct {
	EmployeeNo string `json:"employee_no" validate:"required,min=3"`
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
	Password   string `json:"password" validate:"required,min=8"`
}

// FacultyUpdateRequest patches a faculty profile; nil fields are untouched.
type FacultyUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Department *string `json:"department"`
	Password   *string `json:"password" validate:"omitempty,min=8"`
}

// FacultyFilter narrows faculty listings.
type FacultyFilter struct {
	Department *string `query:"department"`
}

// FacultyResponse is the faculty profile returned to clients.
type FacultyResponse struct {
	ID         uint      `json:"id"`
	EmployeeNo string    `json:"employee_no"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	AvatarURL  string    `json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewFacultyResponse converts a Faculty model into a DTO.
func NewFacultyResponse(model models.Faculty) FacultyResponse {
	return FacultyResponse{
		ID:         model.ID,
		EmployeeNo: model.EmployeeNo,
		Name:       model.Name,
		Email:      model.Email,
		Department: model.Department,
		AvatarURL:  model.AvatarURL,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

// NewFacultyResponseSlice converts faculty models into DTOs.
func NewFacultyResponseSlice(items []models.Faculty) []FacultyResponse {
	responses := make([]FacultyResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewFacultyResponse(item))
	}

	return responses
}
