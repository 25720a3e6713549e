package dto

import (
	"time"

	"github.com/gradehub/gradehub-api/internal/models"
)

// TimetableCreateRequest schedules one period.
type TimetableCreateRequest struct {
	Branch    string `json:"branch" validate:"required"`
	Semester  int    `json:"semester" validate:"required,gte=1,lte=8"`
	Day       string `json:"day" validate:"required,oneof=monday tuesday wednesday thursday friday saturday"`
	Period    int    `json:"period" validate:"required,gte=1,lte=10"`
	Subject   string `json:"subject" validate:"required"`
	FacultyID uint   `json:"faculty_id" validate:"required,gt=0"`
	Room      string `json:"room"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// TimetableUpdateRequest patches a scheduled period; nil fields are untouched.
type TimetableUpdateRequest struct {
	Day       *string `json:"day" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday"`
	Period    *int    `json:"period" validate:"omitempty,gte=1,lte=10"`
	Subject   *string `json:"subject"`
	FacultyID *uint   `json:"faculty_id" validate:"omitempty,gt=0"`
	Room      *string `json:"room"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// TimetableFilter narrows timetable listings.
type TimetableFilter struct {
	Branch   *string `query:"branch"`
	Semester *int    `query:"semester" validate:"omitempty,gte=1,lte=8"`
	Day      *string `query:"day" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday"`
}

// TimetableResponse is one scheduled period returned to clients.
type TimetableResponse struct {
	ID        uint      `json:"id"`
	Branch    string    `json:"branch"`
	Semester  int       `json:"semester"`
	Day       string    `json:"day"`
	Period    int       `json:"period"`
	Subject   string    `json:"subject"`
	FacultyID uint      `json:"faculty_id"`
	Faculty   string    `json:"faculty"`
	Room      string    `json:"room"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTimetableResponse converts a TimetableEntry model into a DTO.
func NewTimetableResponse(model models.TimetableEntry) TimetableResponse {
	return TimetableResponse{
		ID:        model.ID,
		Branch:    model.Branch,
		Semester:  model.Semester,
		Day:       model.Day,
		Period:    model.Period,
		Subject:   model.Subject,
		FacultyID: model.FacultyID,
		Faculty:   model.Faculty.Name,
		Room:      model.Room,
		StartTime: model.StartTime,
		EndTime:   model.EndTime,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// NewTimetableResponseSlice converts timetable models into DTOs.
func NewTimetableResponseSlice(items []models.TimetableEntry) []TimetableResponse {
	responses := make([]TimetableResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewTimetableResponse(item))
	}

	return responses
}
