package models

import "time"

// Faculty represents a teaching staff member who authors assessments.
type Faculty struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EmployeeNo   string    `gorm:"size:32;uniqueIndex;not null" json:"employee_no"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Department   string    `gorm:"size:64" json:"department"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	AvatarURL    string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
