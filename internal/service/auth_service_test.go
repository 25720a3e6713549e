package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
)

type memoryFacultyRepo struct {
	members map[uint]models.Faculty
	nextID  uint
}

func newMemoryFacultyRepo() *memoryFacultyRepo {
	return &memoryFacultyRepo{members: make(map[uint]models.Faculty), nextID: 1}
}

func (m *memoryFacultyRepo) List(_ context.Context, filter repository.FacultyFilter) ([]models.Faculty, error) {
	results := make([]models.Faculty, 0, len(m.members))
	for _, member := range m.members {
		if filter.Department != nil && member.Department != *filter.Department {
			continue
		}
		results = append(results, member)
	}
	return results, nil
}

func (m *memoryFacultyRepo) GetByID(_ context.Context, id uint) (models.Faculty, error) {
	member, ok := m.members[id]
	if !ok {
		return models.Faculty{}, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (m *memoryFacultyRepo) GetByEmployeeNo(_ context.Context, employeeNo string) (models.Faculty, error) {
	for _, member := range m.members {
		if member.EmployeeNo == employeeNo {
			return member, nil
		}
	}
	return models.Faculty{}, gorm.ErrRecordNotFound
}

func (m *memoryFacultyRepo) GetByEmail(_ context.Context, email string) (models.Faculty, error) {
	for _, member := range m.members {
		if member.Email == email {
			return member, nil
		}
	}
	return models.Faculty{}, gorm.ErrRecordNotFound
}

func (m *memoryFacultyRepo) Create(_ context.Context, member *models.Faculty) error {
	member.ID = m.nextID
	m.members[m.nextID] = *member
	m.nextID++
	return nil
}

func (m *memoryFacultyRepo) Update(_ context.Context, member *models.Faculty) error {
	if _, ok := m.members[member.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.members[member.ID] = *member
	return nil
}

func (m *memoryFacultyRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.members[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.members, id)
	return nil
}

const authTestSecret = "auth-test-secret"

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()

	students := newMemoryStudentRepo()
	faculty := newMemoryFacultyRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	student := models.Student{
		EnrollmentNo: "1DS21CS001",
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: string(hash),
	}
	require.NoError(t, students.Create(context.Background(), &student))

	member := models.Faculty{
		EmployeeNo:   "FAC042",
		Name:         "Dr. Rao",
		Email:        "rao@example.com",
		Department:   "CSE",
		PasswordHash: string(hash),
	}
	require.NoError(t, faculty.Create(context.Background(), &member))

	return NewAuthService(students, faculty, validate, authTestSecret, time.Hour, testLogger())
}

func TestAuthStudentLoginIssuesToken(t *testing.T) {
	svc := newAuthFixture(t)

	response, err := svc.LoginStudent(context.Background(), dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, RoleStudent, response.Role)
	require.NotEmpty(t, response.Token)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(response.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(authTestSecret), nil
	})
	require.NoError(t, err)
	require.Equal(t, RoleStudent, claims["role"])
	require.Equal(t, float64(1), claims["sub"])
}

func TestAuthFacultyLoginIssuesToken(t *testing.T) {
	svc := newAuthFixture(t)

	response, err := svc.LoginFaculty(context.Background(), dto.LoginRequest{
		Email:    "rao@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Equal(t, RoleFaculty, response.Role)
	require.NotEmpty(t, response.Token)
}

func TestAuthWrongPasswordRejected(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.LoginStudent(context.Background(), dto.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthUnknownEmailRejected(t *testing.T) {
	svc := newAuthFixture(t)

	_, err := svc.LoginFaculty(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cret-pass",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
