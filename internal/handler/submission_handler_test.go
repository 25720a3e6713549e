package handler_test

import (
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/gradehub/gradehub-api/internal/dto"
)

func createTestAssignment(t *testing.T, app *fiber.App, title string) dto.AssignmentResponse {
	t.Helper()

	req := multipartRequest(t, "/api/v1/assignments", map[string]string{
		"title":           title,
		"description":     "Implement the deliverables",
		"subject":         "Database Systems",
		"branch":          "CSE",
		"semester":        "5",
		"total_marks":     "20",
		"due_date":        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"assessment_type": "ISA2",
		"created_by":      "1",
	}, "brief.txt", []byte("assignment brief"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool                   `json:"success"`
		Data    dto.AssignmentResponse `json:"data"`
		Message string                 `json:"message"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "assignment created", body.Message)
	require.NotZero(t, body.Data.ID)
	require.NotEmpty(t, body.Data.FileURL)
	return body.Data
}

func submitTestFile(t *testing.T, app *fiber.App, assignmentID, studentID uint, fileName string) dto.SubmissionResponse {
	t.Helper()

	req := multipartRequest(t, "/api/v1/submissions", map[string]string{
		"assignment_id": uintField(assignmentID),
		"student_id":    uintField(studentID),
	}, fileName, []byte("select name from students"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	return body.Data
}

func TestSubmissionHandlerSubmitAndEvaluate(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudent(t, db, "1DS21CS201")

	assignment := createTestAssignment(t, app, "Normalization Exercise")
	submission := submitTestFile(t, app, assignment.ID, student.ID, "answers.txt")
	require.Equal(t, "submitted", submission.Status)
	require.Equal(t, student.EnrollmentNo, submission.Student.EnrollmentNo)

	marks := 30.0
	evalReq := jsonRequest(t, "PATCH", "/api/v1/submissions/"+uintField(submission.ID)+"/evaluate", dto.SubmissionEvaluateRequest{
		Marks:    &marks,
		Feedback: "Good coverage of the basics",
	})
	evalResp, err := app.Test(evalReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, evalResp.StatusCode)

	var evalBody struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, evalResp, &evalBody)
	require.Equal(t, "evaluated", evalBody.Data.Status)
	// 30 exceeds the assignment total of 20, so the stored value is clamped.
	require.Equal(t, 20.0, *evalBody.Data.Marks)

	marksReq := jsonRequest(t, "GET", "/api/v1/marks/"+student.EnrollmentNo, nil)
	marksResp, err := app.Test(marksReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, marksResp.StatusCode)

	var marksBody struct {
		Data dto.MarksResponse `json:"data"`
	}
	decodeResponse(t, marksResp, &marksBody)
	require.Len(t, marksBody.Data.Assignments, 1)
	require.Equal(t, assignment.ID, marksBody.Data.Assignments[0].AssessmentID)
	require.Equal(t, 20.0, marksBody.Data.ISA2["Database Systems"])
}

func TestSubmissionHandlerResubmitAfterEvaluationConflicts(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudent(t, db, "1DS21CS202")

	assignment := createTestAssignment(t, app, "Indexing Exercise")
	submission := submitTestFile(t, app, assignment.ID, student.ID, "v1.txt")

	marks := 15.0
	evalReq := jsonRequest(t, "PATCH", "/api/v1/submissions/"+uintField(submission.ID)+"/evaluate", dto.SubmissionEvaluateRequest{Marks: &marks})
	evalResp, err := app.Test(evalReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, evalResp.StatusCode)

	retry := multipartRequest(t, "/api/v1/submissions", map[string]string{
		"assignment_id": uintField(assignment.ID),
		"student_id":    uintField(student.ID),
	}, "v2.txt", []byte("revised answers"))
	retryResp, err := app.Test(retry)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, retryResp.StatusCode)
}

func TestSubmissionHandlerResubmitReplacesFile(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudent(t, db, "1DS21CS203")

	assignment := createTestAssignment(t, app, "Joins Exercise")
	first := submitTestFile(t, app, assignment.ID, student.ID, "draft.txt")
	second := submitTestFile(t, app, assignment.ID, student.ID, "final.txt")

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "final.txt", second.FileName)
	require.Nil(t, second.Marks)
}

func TestSubmissionHandlerUnknownAssignment(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudent(t, db, "1DS21CS204")

	req := multipartRequest(t, "/api/v1/submissions", map[string]string{
		"assignment_id": "999999",
		"student_id":    uintField(student.ID),
	}, "orphan.txt", []byte("no assignment"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAssignmentHandlerDeleteCascadesSubmissions(t *testing.T) {
	app, db := setupApp(t)
	student := seedStudent(t, db, "1DS21CS205")

	assignment := createTestAssignment(t, app, "Transactions Exercise")
	submission := submitTestFile(t, app, assignment.ID, student.ID, "work.txt")

	deleteReq := jsonRequest(t, "DELETE", "/api/v1/assignments/"+uintField(assignment.ID), nil)
	deleteResp, err := app.Test(deleteReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, deleteResp.StatusCode)

	getReq := jsonRequest(t, "GET", "/api/v1/submissions/"+uintField(submission.ID), nil)
	getResp, err := app.Test(getReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, getResp.StatusCode)
}
