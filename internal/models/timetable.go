package models

import "time"

// TimetableEntry is one scheduled period for a branch/semester cohort.
type TimetableEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Branch    string    `gorm:"size:64;not null;index:idx_timetable_cohort" json:"branch"`
	Semester  int       `gorm:"not null;index:idx_timetable_cohort" json:"semester"`
	Day       string    `gorm:"size:16;not null" json:"day"`
	Period    int       `gorm:"not null" json:"period"`
	Subject   string    `gorm:"size:128;not null" json:"subject"`
	FacultyID uint      `gorm:"index" json:"faculty_id"`
	Room      string    `gorm:"size:32" json:"room"`
	StartTime string    `gorm:"size:8" json:"start_time"`
	EndTime   string    `gorm:"size:8" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Faculty   Faculty   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"faculty"`
}
