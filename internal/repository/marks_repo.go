package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gradehub/gradehub-api/internal/models"
)

// MarksRepository defines data operations for per-student marks documents.
type MarksRepository interface {
	GetByEnrollmentNo(ctx context.Context, enrollmentNo string) (models.Marks, error)
	// ApplyScore loads (or lazily creates) the marks row for the student,
	// holds it for the duration of mutate, and persists the result. The
	// whole read-modify-write runs in one transaction so concurrent
	// evaluations cannot clobber each other.
	ApplyScore(ctx context.Context, enrollmentNo string, mutate func(*models.Marks) error) (models.Marks, error)
}

type marksRepository struct {
	db *gorm.DB
}

// NewMarksRepository instantiates the repository.
func NewMarksRepository(db *gorm.DB) MarksRepository {
	return &marksRepository{db: db}
}

func (r *marksRepository) GetByEnrollmentNo(ctx context.Context, enrollmentNo string) (models.Marks, error) {
	var marks models.Marks
	if err := r.db.WithContext(ctx).
		Where("enrollment_no = ?", models.NormalizeEnrollmentNo(enrollmentNo)).
		First(&marks).Error; err != nil {
		return models.Marks{}, err
	}

	return marks, nil
}

func (r *marksRepository) ApplyScore(ctx context.Context, enrollmentNo string, mutate func(*models.Marks) error) (models.Marks, error) {
	normalized := models.NormalizeEnrollmentNo(enrollmentNo)

	var marks models.Marks
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where(models.Marks{EnrollmentNo: normalized})
		// Row locks are a no-op on sqlite; only postgres understands the
		// locking clause.
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		if err := query.FirstOrCreate(&marks).Error; err != nil {
			return err
		}

		if err := mutate(&marks); err != nil {
			return err
		}

		return tx.Save(&marks).Error
	})
	if err != nil {
		return models.Marks{}, err
	}

	return marks, nil
}
