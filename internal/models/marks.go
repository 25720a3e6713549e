package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// ScoreBucket maps a subject name to the latest score recorded for it.
// Writes overwrite: the most recent assessment for a subject wins.
type ScoreBucket map[string]float64

// AssessmentEntry is one rolled-up assessment result inside a marks
// document, unique per assessment identifier.
type AssessmentEntry struct {
	AssessmentID uint      `json:"assessment_id"`
	Title        string    `json:"title"`
	Subject      string    `json:"subject"`
	Marks        float64   `json:"marks"`
	TotalMarks   float64   `json:"total_marks"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Marks is the per-student aggregate every evaluated assignment and
// completed quiz rolls into. Exactly one row exists per enrollment number,
// created lazily on the first rollup.
type Marks struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	EnrollmentNo string         `gorm:"size:32;uniqueIndex;not null" json:"enrollment_no"`
	ISA1         datatypes.JSON `gorm:"type:json" json:"-"`
	ISA2         datatypes.JSON `gorm:"type:json" json:"-"`
	ESA          datatypes.JSON `gorm:"type:json" json:"-"`
	Assignments  datatypes.JSON `gorm:"type:json" json:"-"`
	Quizzes      datatypes.JSON `gorm:"type:json" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Bucket deserializes the score bucket for the given assessment type.
// Returns an empty bucket for non-bucketed types.
func (m Marks) Bucket(t AssessmentType) ScoreBucket {
	var raw datatypes.JSON
	switch t {
	case AssessmentTypeISA1:
		raw = m.ISA1
	case AssessmentTypeISA2:
		raw = m.ISA2
	case AssessmentTypeESA:
		raw = m.ESA
	default:
		return ScoreBucket{}
	}

	if len(raw) == 0 {
		return ScoreBucket{}
	}

	bucket := ScoreBucket{}
	if err := json.Unmarshal(raw, &bucket); err != nil {
		return ScoreBucket{}
	}
	return bucket
}

// RecordBucketScore writes bucket[subject] = score for a bucketed
// assessment type, overwriting any prior value for that subject.
func (m *Marks) RecordBucketScore(t AssessmentType, subject string, score float64) {
	if !t.Bucketed() {
		return
	}

	bucket := m.Bucket(t)
	bucket[subject] = score

	data, err := json.Marshal(bucket)
	if err != nil {
		return
	}

	switch t {
	case AssessmentTypeISA1:
		m.ISA1 = datatypes.JSON(data)
	case AssessmentTypeISA2:
		m.ISA2 = datatypes.JSON(data)
	case AssessmentTypeESA:
		m.ESA = datatypes.JSON(data)
	}
}

// Entries deserializes the rollup list for the given assessment kind.
func (m Marks) Entries(kind AssessmentKind) []AssessmentEntry {
	raw := m.Assignments
	if kind == KindQuiz {
		raw = m.Quizzes
	}

	if len(raw) == 0 {
		return nil
	}

	var entries []AssessmentEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

// RecordEntry upserts an assessment result keyed by assessment identifier.
// Re-evaluation updates the existing entry in place, never duplicating it.
func (m *Marks) RecordEntry(kind AssessmentKind, entry AssessmentEntry) {
	entries := m.Entries(kind)
	replaced := false
	for i, existing := range entries {
		if existing.AssessmentID == entry.AssessmentID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if kind == KindQuiz {
		m.Quizzes = datatypes.JSON(data)
	} else {
		m.Assignments = datatypes.JSON(data)
	}
}
