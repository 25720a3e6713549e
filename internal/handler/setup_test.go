package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/config"
	"github.com/gradehub/gradehub-api/internal/handler"
	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
	"github.com/gradehub/gradehub-api/internal/router"
	"github.com/gradehub/gradehub-api/internal/service"
	"github.com/gradehub/gradehub-api/pkg/cloudinary"
)

type testUploader struct{}

func (u *testUploader) Upload(_ context.Context, name string, _ io.Reader) (cloudinary.UploadResult, error) {
	return cloudinary.UploadResult{
		URL:      "https://example.com/" + name,
		PublicID: "test/" + name,
	}, nil
}

func (u *testUploader) Destroy(context.Context, string) error {
	return nil
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Faculty{},
		&models.Assignment{},
		&models.Submission{},
		&models.Quiz{},
		&models.Question{},
		&models.QuizSubmission{},
		&models.Marks{},
		&models.TimetableEntry{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	uploader := &testUploader{}
	publisher := service.NewNopGradePublisher()

	studentRepo := repository.NewStudentRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	attemptRepo := repository.NewQuizSubmissionRepository(db)
	marksRepo := repository.NewMarksRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)

	authService := service.NewAuthService(studentRepo, facultyRepo, validate, "test-secret", time.Hour, logger)
	studentService := service.NewStudentService(studentRepo, validate, uploader, logger)
	facultyService := service.NewFacultyService(facultyRepo, validate, uploader, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, validate, uploader, logger)
	marksService := service.NewMarksService(marksRepo, nil, time.Minute, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, studentRepo, marksService, publisher, validate, uploader, logger)
	quizService := service.NewQuizService(quizRepo, validate, nil, logger)
	attemptService := service.NewQuizAttemptService(attemptRepo, quizRepo, studentRepo, marksService, publisher, validate, logger)
	timetableService := service.NewTimetableService(timetableRepo, facultyRepo, validate, logger)

	app := fiber.New()

	router.Register(app, config.Config{AppName: "Test", JWTSecret: "test-secret"}, router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(authService, logger),
		StudentHandler:     handler.NewStudentHandler(studentService, logger),
		FacultyHandler:     handler.NewFacultyHandler(facultyService, logger),
		AssignmentHandler:  handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler:  handler.NewSubmissionHandler(submissionService, logger),
		QuizHandler:        handler.NewQuizHandler(quizService, logger),
		QuizAttemptHandler: handler.NewQuizAttemptHandler(attemptService, logger),
		MarksHandler:       handler.NewMarksHandler(marksService, logger),
		TimetableHandler:   handler.NewTimetableHandler(timetableService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", "student")
			return c.Next()
		},
	})

	return app, db
}

func seedStudent(t *testing.T, db *gorm.DB, enrollmentNo string) models.Student {
	t.Helper()

	student := models.Student{
		EnrollmentNo: enrollmentNo,
		Name:         "Student " + enrollmentNo,
		Email:        enrollmentNo + "@example.com",
		Branch:       "CSE",
		Semester:     5,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func uintField(id uint) string {
	return fmt.Sprintf("%d", id)
}
