package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/dto"
	"github.com/gradehub/gradehub-api/internal/models"
)

func seedStudentWithPassword(t *testing.T, db *gorm.DB, enrollmentNo, password string) models.Student {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	student := models.Student{
		EnrollmentNo: enrollmentNo,
		Name:         "Student " + enrollmentNo,
		Email:        enrollmentNo + "@example.com",
		Branch:       "CSE",
		Semester:     5,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func TestAuthHandlerStudentLogin(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudentWithPassword(t, db, "1DS21CS301", "pass-word-1")

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/student/login", dto.LoginRequest{
		Email:    student.Email,
		Password: "pass-word-1",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.NotEmpty(t, body.Data.Token)
	require.Equal(t, "student", body.Data.Role)
}

func TestAuthHandlerWrongPassword(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudentWithPassword(t, db, "1DS21CS302", "pass-word-2")

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/student/login", dto.LoginRequest{
		Email:    student.Email,
		Password: "not-the-password",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandlerMissingEmail(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/v1/auth/faculty/login", dto.LoginRequest{
		Password: "whatever",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMarksHandlerNotFound(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/v1/marks/1DS99XX999", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	resp, err := app.Test(jsonRequest(t, "GET", "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
