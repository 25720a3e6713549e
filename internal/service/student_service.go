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

// ErrStudentNotFound indicates a student could not be found.
var ErrStudentNotFound = errors.New("student not found")

// ErrStudentExists indicates the enrollment number is already registered.
var ErrStudentExists = errors.New("student already exists")

// StudentService manages student profiles.
type StudentService interface {
	List(ctx context.Context, filter dto.StudentFilter) ([]dto.StudentResponse, error)
	GetByID(ctx context.Context, id uint) (dto.StudentResponse, error)
	Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id uint) error
	UploadAvatar(ctx context.Context, id uint, file *multipart.FileHeader) (dto.StudentResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	files     FileStore
	logger    zerolog.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(studentRepo repository.StudentRepository, validate *validator.Validate, files FileStore, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  studentRepo,
		validator: validate,
		files:     files,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, filter dto.StudentFilter) ([]dto.StudentResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	students, err := s.students.List(ctx, repository.StudentFilter{
		Branch:   filter.Branch,
		Semester: filter.Semester,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) GetByID(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	enrollmentNo := models.NormalizeEnrollmentNo(payload.EnrollmentNo)

	if _, err := s.students.GetByEnrollmentNo(ctx, enrollmentNo); err == nil {
		return dto.StudentResponse{}, ErrStudentExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.StudentResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	student := models.Student{
		EnrollmentNo: enrollmentNo,
		Name:         payload.Name,
		Email:        payload.Email,
		Branch:       payload.Branch,
		Semester:     payload.Semester,
		PasswordHash: string(hash),
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Str("enrollment_no", enrollmentNo).Msg("student registered")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id uint, payload dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if payload.Name != nil {
		student.Name = *payload.Name
	}
	if payload.Email != nil {
		student.Email = *payload.Email
	}
	if payload.Branch != nil {
		student.Branch = *payload.Branch
	}
	if payload.Semester != nil {
		student.Semester = *payload.Semester
	}
	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.StudentResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		student.PasswordHash = string(hash)
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student updated")

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().Uint("student_id", id).Msg("student deleted")
	return nil
}

func (s *studentService) UploadAvatar(ctx context.Context, id uint, file *multipart.FileHeader) (dto.StudentResponse, error) {
	if file == nil {
		return dto.StudentResponse{}, fmt.Errorf("avatar file is required")
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.StudentResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	result, err := s.files.Upload(ctx, file.Filename, reader)
	if err != nil {
		return dto.StudentResponse{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	student.AvatarURL = result.URL
	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student avatar updated")

	return dto.NewStudentResponse(student), nil
}
