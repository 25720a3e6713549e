package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
)

type marksFixture struct {
	svc   MarksService
	repo  *memoryMarksRepo
	redis *miniredis.Miniredis
}

func newMarksFixture(t *testing.T) marksFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newMemoryMarksRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewMarksService(repo, client, time.Minute, validate, testLogger())

	return marksFixture{svc: svc, repo: repo, redis: mr}
}

func (f marksFixture) seed(t *testing.T, enrollmentNo string) {
	t.Helper()
	_, err := f.repo.ApplyScore(context.Background(), enrollmentNo, func(doc *models.Marks) error {
		doc.RecordBucketScore(models.AssessmentTypeISA1, "Operating Systems", 14)
		return nil
	})
	require.NoError(t, err)
}

func TestMarksGetNotFound(t *testing.T) {
	f := newMarksFixture(t)

	_, err := f.svc.Get(context.Background(), "1DS21CS404")
	require.ErrorIs(t, err, ErrMarksNotFound)
}

func TestMarksGetServesCachedDocument(t *testing.T) {
	f := newMarksFixture(t)
	f.seed(t, "1DS21CS010")

	first, err := f.svc.Get(context.Background(), "1DS21CS010")
	require.NoError(t, err)
	require.Equal(t, 14.0, first.ISA1["Operating Systems"])
	require.True(t, f.redis.Exists("marks:1DS21CS010"))

	// A direct repo write does not show up until the cache is invalidated.
	_, err = f.repo.ApplyScore(context.Background(), "1DS21CS010", func(doc *models.Marks) error {
		doc.RecordBucketScore(models.AssessmentTypeISA1, "Operating Systems", 19)
		return nil
	})
	require.NoError(t, err)

	second, err := f.svc.Get(context.Background(), "1DS21CS010")
	require.NoError(t, err)
	require.Equal(t, 14.0, second.ISA1["Operating Systems"])
}

func TestMarksGetNormalizesEnrollmentNo(t *testing.T) {
	f := newMarksFixture(t)
	f.seed(t, "1DS21CS010")

	response, err := f.svc.Get(context.Background(), "  1ds21cs010 ")
	require.NoError(t, err)
	require.Equal(t, "1DS21CS010", response.EnrollmentNo)
}

func TestMarksPatchMergesBucketsAndInvalidates(t *testing.T) {
	f := newMarksFixture(t)
	f.seed(t, "1DS21CS010")

	_, err := f.svc.Get(context.Background(), "1DS21CS010")
	require.NoError(t, err)
	require.True(t, f.redis.Exists("marks:1DS21CS010"))

	patched, err := f.svc.Patch(context.Background(), dto.MarksPatchRequest{
		EnrollmentNo: "1DS21CS010",
		ISA1:         map[string]float64{"Operating Systems": 18},
		ESA:          map[string]float64{"Database Systems": 72},
	})
	require.NoError(t, err)
	require.Equal(t, 18.0, patched.ISA1["Operating Systems"])
	require.Equal(t, 72.0, patched.ESA["Database Systems"])
	require.False(t, f.redis.Exists("marks:1DS21CS010"))

	fresh, err := f.svc.Get(context.Background(), "1DS21CS010")
	require.NoError(t, err)
	require.Equal(t, 18.0, fresh.ISA1["Operating Systems"])
}

func TestMarksPatchCreatesDocument(t *testing.T) {
	f := newMarksFixture(t)

	patched, err := f.svc.Patch(context.Background(), dto.MarksPatchRequest{
		EnrollmentNo: "1DS21CS011",
		ISA2:         map[string]float64{"Computer Networks": 16},
	})
	require.NoError(t, err)
	require.Equal(t, "1DS21CS011", patched.EnrollmentNo)
	require.Equal(t, 16.0, patched.ISA2["Computer Networks"])
}

func TestMarksPatchRequiresEnrollmentNo(t *testing.T) {
	f := newMarksFixture(t)

	_, err := f.svc.Patch(context.Background(), dto.MarksPatchRequest{
		ISA1: map[string]float64{"Operating Systems": 10},
	})
	require.Error(t, err)
}

func TestMarksRecordAssessmentInvalidatesCache(t *testing.T) {
	f := newMarksFixture(t)
	f.seed(t, "1DS21CS010")

	_, err := f.svc.Get(context.Background(), "1DS21CS010")
	require.NoError(t, err)

	entry := models.AssessmentEntry{
		AssessmentID: 7,
		Title:        "Process Scheduling Quiz",
		Subject:      "Operating Systems",
		Marks:        8,
		TotalMarks:   10,
		SubmittedAt:  time.Now(),
	}
	require.NoError(t, f.svc.RecordAssessment(context.Background(), "1DS21CS010", models.KindQuiz, models.AssessmentTypeISA2, entry))
	require.False(t, f.redis.Exists("marks:1DS21CS010"))

	response, err := f.svc.Get(context.Background(), "1DS21CS010")
	require.NoError(t, err)
	require.Len(t, response.Quizzes, 1)
	require.Equal(t, uint(7), response.Quizzes[0].AssessmentID)
	require.Equal(t, 8.0, response.ISA2["Operating Systems"])
}

func TestMarksRecordAssessmentUpsertsByAssessmentID(t *testing.T) {
	f := newMarksFixture(t)

	entry := models.AssessmentEntry{AssessmentID: 3, Title: "Lab 1", Subject: "Database Systems", Marks: 5, TotalMarks: 10}
	require.NoError(t, f.svc.RecordAssessment(context.Background(), "1DS21CS012", models.KindAssignment, models.AssessmentTypeISA1, entry))

	entry.Marks = 9
	require.NoError(t, f.svc.RecordAssessment(context.Background(), "1DS21CS012", models.KindAssignment, models.AssessmentTypeISA1, entry))

	response, err := f.svc.Get(context.Background(), "1DS21CS012")
	require.NoError(t, err)
	require.Len(t, response.Assignments, 1)
	require.Equal(t, 9.0, response.Assignments[0].Marks)
}
