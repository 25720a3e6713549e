package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
)

// ErrTimetableEntryNotFound indicates a timetable entry could not be found.
var ErrTimetableEntryNotFound = errors.New("timetable entry not found")

// TimetableService manages the weekly class schedule.
type TimetableService interface {
	List(ctx context.Context, filter dto.TimetableFilter) ([]dto.TimetableResponse, error)
	Create(ctx context.Context, payload dto.TimetableCreateRequest) (dto.TimetableResponse, error)
	Update(ctx context.Context, id uint, payload dto.TimetableUpdateRequest) (dto.TimetableResponse, error)
	Delete(ctx context.Context, id uint) error
}

type timetableService struct {
	timetable repository.TimetableRepository
	faculty   repository.FacultyRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTimetableService constructs a TimetableService instance.
func NewTimetableService(timetableRepo repository.TimetableRepository, facultyRepo repository.FacultyRepository, validate *validator.Validate, logger zerolog.Logger) TimetableService {
	return &timetableService{
		timetable: timetableRepo,
		faculty:   facultyRepo,
		validator: validate,
		logger:    logger.With().Str("component", "timetable_service").Logger(),
	}
}

func (s *timetableService) List(ctx context.Context, filter dto.TimetableFilter) ([]dto.TimetableResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	entries, err := s.timetable.List(ctx, repository.TimetableFilter{
		Branch:   filter.Branch,
		Semester: filter.Semester,
		Day:      filter.Day,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewTimetableResponseSlice(entries), nil
}

func (s *timetableService) Create(ctx context.Context, payload dto.TimetableCreateRequest) (dto.TimetableResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TimetableResponse{}, err
	}

	if _, err := s.faculty.GetByID(ctx, payload.FacultyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TimetableResponse{}, ErrFacultyNotFound
		}
		return dto.TimetableResponse{}, err
	}

	entry := models.TimetableEntry{
		Branch:    payload.Branch,
		Semester:  payload.Semester,
		Day:       strings.ToLower(payload.Day),
		Period:    payload.Period,
		Subject:   payload.Subject,
		FacultyID: payload.FacultyID,
		Room:      payload.Room,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
	}

	if err := s.timetable.Create(ctx, &entry); err != nil {
		return dto.TimetableResponse{}, err
	}

	created, err := s.timetable.GetByID(ctx, entry.ID)
	if err != nil {
		return dto.TimetableResponse{}, err
	}

	s.logger.Info().Uint("entry_id", entry.ID).Msg("timetable entry created")

	return dto.NewTimetableResponse(created), nil
}

func (s *timetableService) Update(ctx context.Context, id uint, payload dto.TimetableUpdateRequest) (dto.TimetableResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TimetableResponse{}, err
	}

	entry, err := s.timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TimetableResponse{}, ErrTimetableEntryNotFound
		}
		return dto.TimetableResponse{}, err
	}

	if payload.Day != nil {
		entry.Day = strings.ToLower(*payload.Day)
	}
	if payload.Period != nil {
		entry.Period = *payload.Period
	}
	if payload.Subject != nil {
		entry.Subject = *payload.Subject
	}
	if payload.FacultyID != nil {
		if _, err := s.faculty.GetByID(ctx, *payload.FacultyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.TimetableResponse{}, ErrFacultyNotFound
			}
			return dto.TimetableResponse{}, err
		}
		entry.FacultyID = *payload.FacultyID
	}
	if payload.Room != nil {
		entry.Room = *payload.Room
	}
	if payload.StartTime != nil {
		entry.StartTime = *payload.StartTime
	}
	if payload.EndTime != nil {
		entry.EndTime = *payload.EndTime
	}

	if err := s.timetable.Update(ctx, &entry); err != nil {
		return dto.TimetableResponse{}, err
	}

	updated, err := s.timetable.GetByID(ctx, entry.ID)
	if err != nil {
		return dto.TimetableResponse{}, err
	}

	s.logger.Info().Uint("entry_id", entry.ID).Msg("timetable entry updated")

	return dto.NewTimetableResponse(updated), nil
}

func (s *timetableService) Delete(ctx context.Context, id uint) error {
	if err := s.timetable.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimetableEntryNotFound
		}
		return err
	}

	s.logger.Info().Uint("entry_id", id).Msg("timetable entry deleted")
	return nil
}
