package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lottoapi/internal/models"
)

var (
	ErrDrawNotFound = errors.New("repository: draw not found")
	ErrDrawExists   = errors.New("repository: draw already exists for that date")
)

// DrawRepository is the read/ingest contract over historical draws.
// All listing methods return draws ordered by date descending.
type DrawRepository interface {
	GetByDate(ctx context.Context, date models.Date) (*models.Draw, error)
	GetLatest(ctx context.Context) (*models.Draw, error)
	GetAll(ctx context.Context) ([]models.Draw, error)
	GetPage(ctx context.Context, page, size int) ([]models.Draw, int64, error)
	Search(ctx context.Context, start, end *models.Date, page, size int) ([]models.Draw, int64, error)
	Create(ctx context.Context, draw *models.Draw) error
}

// GormDrawRepository implements DrawRepository over the lottery_draws
// table.
type GormDrawRepository struct {
	db *gorm.DB
}

func NewGormDrawRepository(db *gorm.DB) *GormDrawRepository {
	return &GormDrawRepository{db: db}
}

func (r *GormDrawRepository) GetByDate(ctx context.Context, date models.Date) (*models.Draw, error) {
	var draw models.Draw
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&draw).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDrawNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get draw by date %s: %w", date, err)
	}
	return &draw, nil
}

func (r *GormDrawRepository) GetLatest(ctx context.Context) (*models.Draw, error) {
	var draw models.Draw
	err := r.db.WithContext(ctx).Order("date DESC").First(&draw).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDrawNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest draw: %w", err)
	}
	return &draw, nil
}

func (r *GormDrawRepository) GetAll(ctx context.Context) ([]models.Draw, error) {
	var draws []models.Draw
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&draws).Error; err != nil {
		return nil, fmt.Errorf("get all draws: %w", err)
	}
	return draws, nil
}

func (r *GormDrawRepository) GetPage(ctx context.Context, page, size int) ([]models.Draw, int64, error) {
	return r.Search(ctx, nil, nil, page, size)
}

func (r *GormDrawRepository) Search(ctx context.Context, start, end *models.Date, page, size int) ([]models.Draw, int64, error) {
	// Build the filtered query fresh for each statement; sharing one
	// chain between Count and Find pollutes the statement.
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Draw{})
		if start != nil {
			q = q.Where("date >= ?", *start)
		}
		if end != nil {
			q = q.Where("date <= ?", *end)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count draws: %w", err)
	}

	var draws []models.Draw
	offset := (page - 1) * size
	if err := filtered().Order("date DESC").Offset(offset).Limit(size).Find(&draws).Error; err != nil {
		return nil, 0, fmt.Errorf("list draws: %w", err)
	}
	return draws, total, nil
}

func (r *GormDrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Draw{}).
		Where("date = ?", draw.Date).Count(&count).Error
	if err != nil {
		return fmt.Errorf("check existing draw for %s: %w", draw.Date, err)
	}
	if count > 0 {
		return ErrDrawExists
	}
	if err := r.db.WithContext(ctx).Create(draw).Error; err != nil {
		return fmt.Errorf("create draw for %s: %w", draw.Date, err)
	}
	return nil
}
