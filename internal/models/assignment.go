package models

import "time"

// Assignment represents a file-based assessment authored by faculty.
type Assignment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Subject        string         `gorm:"size:128;not null;index" json:"subject"`
	Branch         string         `gorm:"size:64;index" json:"branch"`
	Semester       int            `gorm:"index" json:"semester"`
	TotalMarks     float64        `gorm:"not null" json:"total_marks"`
	DueDate        time.Time      `gorm:"not null" json:"due_date"`
	AssessmentType AssessmentType `gorm:"size:16;default:Other" json:"assessment_type"`
	CreatedBy      uint           `gorm:"index" json:"created_by"`
	FileURL        string         `gorm:"size:512" json:"file_url"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
