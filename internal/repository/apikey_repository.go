package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lottoapi/internal/models"
)

var (
	ErrAPIKeyNotFound = errors.New("repository: api key not found")
	ErrAPIKeyInactive = errors.New("repository: api key is inactive")
)

// APIKeyRepository resolves an API key to a client identity.
type APIKeyRepository interface {
	Validate(ctx context.Context, key string) (clientName string, err error)
}

type GormAPIKeyRepository struct {
	db *gorm.DB
}

func NewGormAPIKeyRepository(db *gorm.DB) *GormAPIKeyRepository {
	return &GormAPIKeyRepository{db: db}
}

// Validate looks the key up live so revocations take effect on the
// next request.
func (r *GormAPIKeyRepository) Validate(ctx context.Context, key string) (string, error) {
	var record models.APIKey
	err := r.db.WithContext(ctx).Where("api_key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAPIKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("look up api key: %w", err)
	}
	if !record.Active {
		return "", ErrAPIKeyInactive
	}
	return record.ClientName, nil
}
