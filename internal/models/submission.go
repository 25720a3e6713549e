package models

import "time"

// SubmissionStatus is the lifecycle state of an assignment submission.
type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusLate      SubmissionStatus = "late"
	SubmissionStatusEvaluated SubmissionStatus = "evaluated"
)

// CanTransition reports whether a submission may move to the target status.
// Evaluation is one-way: an evaluated submission never goes back. A
// resubmission swaps between submitted and late depending on the deadline.
func (s SubmissionStatus) CanTransition(to SubmissionStatus) bool {
	switch s {
	case SubmissionStatusSubmitted, SubmissionStatusLate:
		return to == SubmissionStatusSubmitted || to == SubmissionStatusLate || to == SubmissionStatusEvaluated
	}
	return false
}

// Submission is a student's file upload against one assignment. At most one
// row exists per (assignment, student) pair; resubmission reuses the row.
type Submission struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	AssignmentID uint             `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"assignment_id"`
	StudentID    uint             `gorm:"not null;uniqueIndex:idx_submission_assignment_student" json:"student_id"`
	FileURL      string           `gorm:"size:512" json:"file_url"`
	FileName     string           `gorm:"size:255" json:"file_name"`
	FileType     string           `gorm:"size:128" json:"file_type"`
	FilePublicID string           `gorm:"size:255" json:"-"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	Marks        *float64         `json:"marks"`
	Feedback     string           `gorm:"type:text" json:"feedback"`
	Status       SubmissionStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Assignment   Assignment       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student      Student          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// StatusForDeadline returns the status a fresh upload should carry given
// the assignment deadline.
func StatusForDeadline(dueDate, submittedAt time.Time) SubmissionStatus {
	if submittedAt.After(dueDate) {
		return SubmissionStatusLate
	}
	return SubmissionStatusSubmitted
}
