package models

// AssessmentType tags an assignment or quiz with the grade bucket it
// contributes to.
type AssessmentType string

const (
	AssessmentTypeISA1  AssessmentType = "ISA1"
	AssessmentTypeISA2  AssessmentType = "ISA2"
	AssessmentTypeESA   AssessmentType = "ESA"
	AssessmentTypeOther AssessmentType = "Other"
)

// Valid reports whether the assessment type is one of the known tags.
func (t AssessmentType) Valid() bool {
	switch t {
	case AssessmentTypeISA1, AssessmentTypeISA2, AssessmentTypeESA, AssessmentTypeOther:
		return true
	}
	return false
}

// Bucketed reports whether scores for this type are mirrored into a
// subject-keyed marks bucket. "Other" assessments only appear in the
// per-assessment entry lists.
func (t AssessmentType) Bucketed() bool {
	switch t {
	case AssessmentTypeISA1, AssessmentTypeISA2, AssessmentTypeESA:
		return true
	}
	return false
}

// AssessmentKind distinguishes the two entry lists in a marks document.
type AssessmentKind string

const (
	KindAssignment AssessmentKind = "assignment"
	KindQuiz       AssessmentKind = "quiz"
)
