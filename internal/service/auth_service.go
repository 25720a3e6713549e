package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/repository"
)

// ErrInvalidCredentials indicates a failed login attempt. The caller never
// learns whether the account or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Role names carried in JWT claims.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
)

// AuthService authenticates students and faculty and issues bearer tokens.
type AuthService interface {
	LoginStudent(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	LoginFaculty(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	students  repository.StudentRepository
	faculty   repository.FacultyRepository
	validator *validator.Validate
	secret    string
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(studentRepo repository.StudentRepository, facultyRepo repository.FacultyRepository, validate *validator.Validate, secret string, ttl time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		students:  studentRepo,
		faculty:   facultyRepo,
		validator: validate,
		secret:    secret,
		ttl:       ttl,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) LoginStudent(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	student, err := s.students.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(payload.Password)) != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(student.ID, RoleStudent)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student logged in")

	return dto.LoginResponse{
		Token:   token,
		Role:    RoleStudent,
		Profile: dto.NewStudentResponse(student),
	}, nil
}

func (s *authService) LoginFaculty(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	member, err := s.faculty.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(payload.Password)) != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(member.ID, RoleFaculty)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("faculty_id", member.ID).Msg("faculty logged in")

	return dto.LoginResponse{
		Token:   token,
		Role:    RoleFaculty,
		Profile: dto.NewFacultyResponse(member),
	}, nil
}

func (s *authService) issueToken(subject uint, role string) (string, error) {
	issuedAt := s.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  issuedAt.Unix(),
		"exp":  issuedAt.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
