package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
)

// ErrFacultyNotFound indicates a faculty member could not be found.
var ErrFacultyNotFound = errors.New("faculty not found")

// ErrFacultyExists indicates the employee number is already registered.
var ErrFacultyExists = errors.New("faculty already exists")

// FacultyService manages faculty profiles.
type FacultyService interface {
	List(ctx context.Context, filter dto.FacultyFilter) ([]dto.FacultyResponse, error)
	GetByID(ctx context.Context, id uint) (dto.FacultyResponse, error)
	Create(ctx context.Context, payload dto.FacultyCreateRequest) (dto.FacultyResponse, error)
	Update(ctx context.Context, id uint, payload dto.FacultyUpdateRequest) (dto.FacultyResponse, error)
	Delete(ctx context.Context, id uint) error
	UploadAvatar(ctx context.Context, id uint, file *multipart.FileHeader) (dto.FacultyResponse, error)
}

type facultyService struct {
	faculty   repository.FacultyRepository
	validator *validator.Validate
	files     FileStore
	logger    zerolog.Logger
}

// NewFacultyService constructs a FacultyService instance.
func NewFacultyService(facultyRepo repository.FacultyRepository, validate *validator.Validate, files FileStore, logger zerolog.Logger) FacultyService {
	return &facultyService{
		faculty:   facultyRepo,
		validator: validate,
		files:     files,
		logger:    logger.With().Str("component", "faculty_service").Logger(),
	}
}

func (s *facultyService) List(ctx context.Context, filter dto.FacultyFilter) ([]dto.FacultyResponse, error) {
	members, err := s.faculty.List(ctx, repository.FacultyFilter{Department: filter.Department})
	if err != nil {
		return nil, err
	}

	return dto.NewFacultyResponseSlice(members), nil
}

func (s *facultyService) GetByID(ctx context.Context, id uint) (dto.FacultyResponse, error) {
	member, err := s.faculty.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FacultyResponse{}, ErrFacultyNotFound
		}
		return dto.FacultyResponse{}, err
	}

	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) Create(ctx context.Context, payload dto.FacultyCreateRequest) (dto.FacultyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyResponse{}, err
	}

	if _, err := s.faculty.GetByEmployeeNo(ctx, payload.EmployeeNo); err == nil {
		return dto.FacultyResponse{}, ErrFacultyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.FacultyResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.FacultyResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	member := models.Faculty{
		EmployeeNo:   payload.EmployeeNo,
		Name:         payload.Name,
		Email:        payload.Email,
		Department:   payload.Department,
		PasswordHash: string(hash),
	}

	if err := s.faculty.Create(ctx, &member); err != nil {
		return dto.FacultyResponse{}, err
	}

	s.logger.Info().Uint("faculty_id", member.ID).Msg("faculty registered")

	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) Update(ctx context.Context, id uint, payload dto.FacultyUpdateRequest) (dto.FacultyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyResponse{}, err
	}

	member, err := s.faculty.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FacultyResponse{}, ErrFacultyNotFound
		}
		return dto.FacultyResponse{}, err
	}

	if payload.Name != nil {
		member.Name = *payload.Name
	}
	if payload.Email != nil {
		member.Email = *payload.Email
	}
	if payload.Department != nil {
		member.Department = *payload.Department
	}
	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.FacultyResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		member.PasswordHash = string(hash)
	}

	if err := s.faculty.Update(ctx, &member); err != nil {
		return dto.FacultyResponse{}, err
	}

	s.logger.Info().Uint("faculty_id", member.ID).Msg("faculty updated")

	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) Delete(ctx context.Context, id uint) error {
	if err := s.faculty.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFacultyNotFound
		}
		return err
	}

	s.logger.Info().Uint("faculty_id", id).Msg("faculty deleted")
	return nil
}

func (s *facultyService) UploadAvatar(ctx context.Context, id uint, file *multipart.FileHeader) (dto.FacultyResponse, error) {
	if file == nil {
		return dto.FacultyResponse{}, fmt.Errorf("avatar file is required")
	}

	member, err := s.faculty.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.FacultyResponse{}, ErrFacultyNotFound
		}
		return dto.FacultyResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.FacultyResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	result, err := s.files.Upload(ctx, file.Filename, reader)
	if err != nil {
		return dto.FacultyResponse{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	member.AvatarURL = result.URL
	if err := s.faculty.Update(ctx, &member); err != nil {
		return dto.FacultyResponse{}, err
	}

	s.logger.Info().Uint("faculty_id", member.ID).Msg("faculty avatar updated")

	return dto.NewFacultyResponse(member), nil
}
