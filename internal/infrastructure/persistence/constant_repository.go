package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/settings"
	"github.com/storefront/backend/internal/domain/shared"
)

// GormConstantRepository implements settings.ConstantRepository using GORM
type GormConstantRepository struct {
	db *gorm.DB
}

// NewGormConstantRepository creates a new GormConstantRepository
func NewGormConstantRepository(db *gorm.DB) *GormConstantRepository {
	return &GormConstantRepository{db: db}
}

// FindByID finds a constant by ID
func (r *GormConstantRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.Constant, error) {
	var constant settings.Constant
	if err := r.db.WithContext(ctx).First(&constant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &constant, nil
}

// FindByKey finds a constant by its key
func (r *GormConstantRepository) FindByKey(ctx context.Context, key string) (*settings.Constant, error) {
	var constant settings.Constant
	if err := r.db.WithContext(ctx).First(&constant, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &constant, nil
}

// FindAll finds all constants
func (r *GormConstantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]settings.Constant, error) {
	var constants []settings.Constant
	query := r.db.WithContext(ctx).Model(&settings.Constant{}).Order("key ASC")
	if filter.Search != "" {
		query = query.Where("key ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Find(&constants).Error; err != nil {
		return nil, err
	}
	return constants, nil
}

// FindAllAsMap returns every constant as a key to value map
func (r *GormConstantRepository) FindAllAsMap(ctx context.Context) (map[string]string, error) {
	var constants []settings.Constant
	if err := r.db.WithContext(ctx).Find(&constants).Error; err != nil {
		return nil, err
	}
	m := make(map[string]string, len(constants))
	for _, c := range constants {
		m[c.Key] = c.Value
	}
	return m, nil
}

// Save creates or updates a constant
func (r *GormConstantRepository) Save(ctx context.Context, constant *settings.Constant) error {
	return r.db.WithContext(ctx).Save(constant).Error
}

// Delete deletes a constant by ID
func (r *GormConstantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&settings.Constant{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByKey deletes a constant by key
func (r *GormConstantRepository) DeleteByKey(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Delete(&settings.Constant{}, "key = ?", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts all constants
func (r *GormConstantRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&settings.Constant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormConstantRepository implements ConstantRepository
var _ settings.ConstantRepository = (*GormConstantRepository)(nil)
