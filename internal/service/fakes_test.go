package service

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/models"
	"github.com/gradehub/gradehub-api/internal/repository"
	"github.com/gradehub/gradehub-api/pkg/cloudinary"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type stubFileStore struct {
	uploads   int
	destroyed []string
}

func (s *stubFileStore) Upload(_ context.Context, name string, _ io.Reader) (cloudinary.UploadResult, error) {
	s.uploads++
	return cloudinary.UploadResult{
		URL:      "https://example.com/" + name,
		PublicID: "test/" + name,
	}, nil
}

func (s *stubFileStore) Destroy(_ context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

type capturingPublisher struct {
	events []GradeEvent
}

func (p *capturingPublisher) PublishGradeRecorded(_ context.Context, event GradeEvent) error {
	p.events = append(p.events, event)
	return nil
}

type memoryStudentRepo struct {
	students map[uint]models.Student
	nextID   uint
}

func newMemoryStudentRepo() *memoryStudentRepo {
	return &memoryStudentRepo{students: make(map[uint]models.Student), nextID: 1}
}

func (m *memoryStudentRepo) List(_ context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	results := make([]models.Student, 0, len(m.students))
	for _, student := range m.students {
		if filter.Branch != nil && student.Branch != *filter.Branch {
			continue
		}
		if filter.Semester != nil && student.Semester != *filter.Semester {
			continue
		}
		results = append(results, student)
	}
	return results, nil
}

func (m *memoryStudentRepo) GetByID(_ context.Context, id uint) (models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) GetByEnrollmentNo(_ context.Context, enrollmentNo string) (models.Student, error) {
	normalized := models.NormalizeEnrollmentNo(enrollmentNo)
	for _, student := range m.students {
		if student.EnrollmentNo == normalized {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (m *memoryStudentRepo) GetByEmail(_ context.Context, email string) (models.Student, error) {
	for _, student := range m.students {
		if student.Email == email {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (m *memoryStudentRepo) Create(_ context.Context, student *models.Student) error {
	student.ID = m.nextID
	student.CreatedAt = time.Now()
	student.UpdatedAt = time.Now()
	m.students[m.nextID] = *student
	m.nextID++
	return nil
}

func (m *memoryStudentRepo) Update(_ context.Context, student *models.Student) error {
	if _, ok := m.students[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	student.UpdatedAt = time.Now()
	m.students[student.ID] = *student
	return nil
}

func (m *memoryStudentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.students, id)
	return nil
}

type memoryQuizRepo struct {
	quizzes        map[uint]models.Quiz
	nextID         uint
	nextQuestionID uint
}

func newMemoryQuizRepo() *memoryQuizRepo {
	return &memoryQuizRepo{quizzes: make(map[uint]models.Quiz), nextID: 1, nextQuestionID: 1}
}

func (m *memoryQuizRepo) List(_ context.Context, filter repository.QuizFilter) ([]models.Quiz, error) {
	results := make([]models.Quiz, 0, len(m.quizzes))
	for _, quiz := range m.quizzes {
		if filter.Status != nil && quiz.Status != *filter.Status {
			continue
		}
		results = append(results, quiz)
	}
	return results, nil
}

func (m *memoryQuizRepo) GetByID(_ context.Context, id uint) (models.Quiz, error) {
	quiz, ok := m.quizzes[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	return quiz, nil
}

func (m *memoryQuizRepo) Create(_ context.Context, quiz *models.Quiz) error {
	quiz.ID = m.nextID
	quiz.CreatedAt = time.Now()
	quiz.UpdatedAt = time.Now()
	m.quizzes[m.nextID] = *quiz
	m.nextID++
	return nil
}

func (m *memoryQuizRepo) Update(_ context.Context, quiz *models.Quiz) error {
	existing, ok := m.quizzes[quiz.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	quiz.Questions = existing.Questions
	quiz.UpdatedAt = time.Now()
	m.quizzes[quiz.ID] = *quiz
	return nil
}

func (m *memoryQuizRepo) DeleteCascade(_ context.Context, id uint) error {
	if _, ok := m.quizzes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.quizzes, id)
	return nil
}

func (m *memoryQuizRepo) CreateQuestion(_ context.Context, question *models.Question) error {
	quiz, ok := m.quizzes[question.QuizID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	question.ID = m.nextQuestionID
	m.nextQuestionID++
	quiz.Questions = append(quiz.Questions, *question)
	m.quizzes[quiz.ID] = quiz
	return nil
}

func (m *memoryQuizRepo) UpdateQuestion(_ context.Context, question *models.Question) error {
	quiz, ok := m.quizzes[question.QuizID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, existing := range quiz.Questions {
		if existing.ID == question.ID {
			quiz.Questions[i] = *question
			m.quizzes[quiz.ID] = quiz
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryQuizRepo) DeleteQuestion(_ context.Context, quizID, questionID uint) error {
	quiz, ok := m.quizzes[quizID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, existing := range quiz.Questions {
		if existing.ID == questionID {
			quiz.Questions = append(quiz.Questions[:i], quiz.Questions[i+1:]...)
			m.quizzes[quizID] = quiz
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memoryAttemptRepo struct {
	attempts map[uint]models.QuizSubmission
	quizzes  *memoryQuizRepo
	students *memoryStudentRepo
	nextID   uint
}

func newMemoryAttemptRepo(quizzes *memoryQuizRepo, students *memoryStudentRepo) *memoryAttemptRepo {
	return &memoryAttemptRepo{
		attempts: make(map[uint]models.QuizSubmission),
		quizzes:  quizzes,
		students: students,
		nextID:   1,
	}
}

func (m *memoryAttemptRepo) hydrate(attempt models.QuizSubmission) models.QuizSubmission {
	if quiz, ok := m.quizzes.quizzes[attempt.QuizID]; ok {
		attempt.Quiz = quiz
	}
	if student, ok := m.students.students[attempt.StudentID]; ok {
		attempt.Student = student
	}
	return attempt
}

func (m *memoryAttemptRepo) List(_ context.Context, filter repository.QuizSubmissionFilter) ([]models.QuizSubmission, error) {
	results := make([]models.QuizSubmission, 0, len(m.attempts))
	for _, attempt := range m.attempts {
		if filter.QuizID != nil && attempt.QuizID != *filter.QuizID {
			continue
		}
		if filter.StudentID != nil && attempt.StudentID != *filter.StudentID {
			continue
		}
		results = append(results, m.hydrate(attempt))
	}
	return results, nil
}

func (m *memoryAttemptRepo) GetByID(_ context.Context, id uint) (models.QuizSubmission, error) {
	attempt, ok := m.attempts[id]
	if !ok {
		return models.QuizSubmission{}, gorm.ErrRecordNotFound
	}
	return m.hydrate(attempt), nil
}

func (m *memoryAttemptRepo) GetByQuizAndStudent(_ context.Context, quizID, studentID uint) (models.QuizSubmission, error) {
	for _, attempt := range m.attempts {
		if attempt.QuizID == quizID && attempt.StudentID == studentID {
			return m.hydrate(attempt), nil
		}
	}
	return models.QuizSubmission{}, gorm.ErrRecordNotFound
}

func (m *memoryAttemptRepo) Create(_ context.Context, attempt *models.QuizSubmission) error {
	attempt.ID = m.nextID
	attempt.CreatedAt = time.Now()
	attempt.UpdatedAt = time.Now()
	m.attempts[m.nextID] = *attempt
	m.nextID++
	return nil
}

func (m *memoryAttemptRepo) Update(_ context.Context, attempt *models.QuizSubmission) error {
	if _, ok := m.attempts[attempt.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	attempt.UpdatedAt = time.Now()
	stored := *attempt
	stored.Quiz = models.Quiz{}
	stored.Student = models.Student{}
	m.attempts[attempt.ID] = stored
	return nil
}

type memoryMarksRepo struct {
	mu     sync.Mutex
	docs   map[string]models.Marks
	nextID uint
}

func newMemoryMarksRepo() *memoryMarksRepo {
	return &memoryMarksRepo{docs: make(map[string]models.Marks), nextID: 1}
}

func (m *memoryMarksRepo) GetByEnrollmentNo(_ context.Context, enrollmentNo string) (models.Marks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[models.NormalizeEnrollmentNo(enrollmentNo)]
	if !ok {
		return models.Marks{}, gorm.ErrRecordNotFound
	}
	return doc, nil
}

func (m *memoryMarksRepo) ApplyScore(_ context.Context, enrollmentNo string, mutate func(*models.Marks) error) (models.Marks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalized := models.NormalizeEnrollmentNo(enrollmentNo)
	doc, ok := m.docs[normalized]
	if !ok {
		doc = models.Marks{ID: m.nextID, EnrollmentNo: normalized, CreatedAt: time.Now()}
		m.nextID++
	}

	if err := mutate(&doc); err != nil {
		return models.Marks{}, err
	}

	doc.UpdatedAt = time.Now()
	m.docs[normalized] = doc
	return doc, nil
}
