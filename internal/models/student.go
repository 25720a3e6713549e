package models

import (
	"strings"
	"time"
)

// Student represents a learner identified by their enrollment number.
type Student struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EnrollmentNo string    `gorm:"size:32;uniqueIndex;not null" json:"enrollment_no"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Branch       string    `gorm:"size:64" json:"branch"`
	Semester     int       `json:"semester"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	AvatarURL    string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEnrollmentNo converts an enrollment number into its canonical
// string form. Every lookup and marks rollup must go through this so a
// student is never keyed two different ways.
func NormalizeEnrollmentNo(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
