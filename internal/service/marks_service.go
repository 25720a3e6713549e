package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/observability"
	"github.com/gradehub/gradehub-api/internal/repository"
)

// ErrMarksNotFound indicates no marks document exists for the student yet.
var ErrMarksNotFound = errors.New("marks not found")

// MarksService reads and mutates per-student marks documents. Reads are
// served from Redis when a client is configured; every write invalidates
// the cached document.
type MarksService interface {
	Get(ctx context.Context, enrollmentNo string) (dto.MarksResponse, error)
	Patch(ctx context.Context, payload dto.MarksPatchRequest) (dto.MarksResponse, error)
	RecordAssessment(ctx context.Context, enrollmentNo string, kind models.AssessmentKind, assessmentType models.AssessmentType, entry models.AssessmentEntry) error
}

type marksService struct {
	marks     repository.MarksRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewMarksService constructs a MarksService instance. Pass a nil cache to
// disable caching.
func NewMarksService(marksRepo repository.MarksRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) MarksService {
	return &marksService{
		marks:     marksRepo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "marks_service").Logger(),
	}
}

func (s *marksService) Get(ctx context.Context, enrollmentNo string) (dto.MarksResponse, error) {
	normalized := models.NormalizeEnrollmentNo(enrollmentNo)

	if cached, ok := s.cachedResponse(ctx, normalized); ok {
		return cached, nil
	}

	marks, err := s.marks.GetByEnrollmentNo(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MarksResponse{}, ErrMarksNotFound
		}
		return dto.MarksResponse{}, err
	}

	response := dto.NewMarksResponse(marks)
	s.storeResponse(ctx, normalized, response)

	return response, nil
}

func (s *marksService) Patch(ctx context.Context, payload dto.MarksPatchRequest) (dto.MarksResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MarksResponse{}, err
	}

	normalized := models.NormalizeEnrollmentNo(payload.EnrollmentNo)

	marks, err := s.marks.ApplyScore(ctx, normalized, func(doc *models.Marks) error {
		applyBucketPatch(doc, models.AssessmentTypeISA1, payload.ISA1)
		applyBucketPatch(doc, models.AssessmentTypeISA2, payload.ISA2)
		applyBucketPatch(doc, models.AssessmentTypeESA, payload.ESA)
		return nil
	})
	if err != nil {
		return dto.MarksResponse{}, err
	}

	s.invalidate(ctx, normalized)
	s.logger.Info().Str("enrollment_no", normalized).Msg("marks buckets patched")

	return dto.NewMarksResponse(marks), nil
}

func (s *marksService) RecordAssessment(ctx context.Context, enrollmentNo string, kind models.AssessmentKind, assessmentType models.AssessmentType, entry models.AssessmentEntry) error {
	normalized := models.NormalizeEnrollmentNo(enrollmentNo)

	_, err := s.marks.ApplyScore(ctx, normalized, func(doc *models.Marks) error {
		doc.RecordEntry(kind, entry)
		if assessmentType.Bucketed() {
			doc.RecordBucketScore(assessmentType, entry.Subject, entry.Marks)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to roll up marks: %w", err)
	}

	observability.MarksRollups().WithLabelValues(string(kind)).Inc()
	s.invalidate(ctx, normalized)

	s.logger.Info().
		Str("enrollment_no", normalized).
		Str("kind", string(kind)).
		Uint("assessment_id", entry.AssessmentID).
		Msg("assessment rolled up into marks")

	return nil
}

func applyBucketPatch(doc *models.Marks, assessmentType models.AssessmentType, patch map[string]float64) {
	for subject, score := range patch {
		doc.RecordBucketScore(assessmentType, subject, score)
	}
}

func (s *marksService) cacheKey(enrollmentNo string) string {
	return "marks:" + enrollmentNo
}

func (s *marksService) cachedResponse(ctx context.Context, enrollmentNo string) (dto.MarksResponse, bool) {
	if s.cache == nil {
		return dto.MarksResponse{}, false
	}

	data, err := s.cache.Get(ctx, s.cacheKey(enrollmentNo)).Bytes()
	if err != nil {
		return dto.MarksResponse{}, false
	}

	var response dto.MarksResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return dto.MarksResponse{}, false
	}

	return response, true
}

func (s *marksService) storeResponse(ctx context.Context, enrollmentNo string, response dto.MarksResponse) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, s.cacheKey(enrollmentNo), data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache marks document")
	}
}

func (s *marksService) invalidate(ctx context.Context, enrollmentNo string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, s.cacheKey(enrollmentNo)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate marks cache")
	}
}
