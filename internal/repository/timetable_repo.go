package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/gradehub/gradehub-api/internal/models"
)

// TimetableFilter allows narrowing timetable queries.
type TimetableFilter struct {
	Branch   *string
	Semester *int
	Day      *string
}

// TimetableRepository defines data operations for timetable entries.
type TimetableRepository interface {
	List(ctx context.Context, filter TimetableFilter) ([]models.TimetableEntry, error)
	GetByID(ctx context.Context, id uint) (models.TimetableEntry, error)
	Create(ctx context.Context, entry *models.TimetableEntry) error
	Update(ctx context.Context, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id uint) error
}

type timetableRepository struct {
	db *gorm.DB
}

// NewTimetableRepository instantiates the repository.
func NewTimetableRepository(db *gorm.DB) TimetableRepository {
	return &timetableRepository{db: db}
}

func (r *timetableRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.TimetableEntry{}).Preload("Faculty")
}

func (r *timetableRepository) List(ctx context.Context, filter TimetableFilter) ([]models.TimetableEntry, error) {
	query := r.baseQuery(ctx)

	if filter.Branch != nil {
		query = query.Where("branch = ?", *filter.Branch)
	}

	if filter.Semester != nil {
		query = query.Where("semester = ?", *filter.Semester)
	}

	if filter.Day != nil {
		query = query.Where("day = ?", *filter.Day)
	}

	var entries []models.TimetableEntry
	if err := query.Order("day ASC, period ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *timetableRepository) GetByID(ctx context.Context, id uint) (models.TimetableEntry, error) {
	var entry models.TimetableEntry
	if err := r.baseQuery(ctx).First(&entry, id).Error; err != nil {
		return models.TimetableEntry{}, err
	}

	return entry, nil
}

func (r *timetableRepository) Create(ctx context.Context, entry *models.TimetableEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timetableRepository) Update(ctx context.Context, entry *models.TimetableEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *timetableRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.TimetableEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
