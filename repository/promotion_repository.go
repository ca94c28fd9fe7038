package repository

import (
	"context"
	"errors"

	"promotion-backend/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PromotionRepository is the storage boundary for promotions. Writes return
// *models.DataValidationError on failure, after rolling back.
type PromotionRepository interface {
	Create(ctx context.Context, promotion *models.Promotion) error
	Update(ctx context.Context, promotion *models.Promotion) error
	Delete(ctx context.Context, promotion *models.Promotion) error
	All(ctx context.Context) ([]models.Promotion, error)
	Find(ctx context.Context, id int64) (*models.Promotion, error)
	FindByName(ctx context.Context, name string) ([]models.Promotion, error)
}

// GormPromotionRepository implements PromotionRepository on a *gorm.DB.
// Each write runs in its own transaction.
type GormPromotionRepository struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewGormPromotionRepository uses the global zerolog logger.
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db, logger: log.Logger}
}

// WithLogger returns a copy of the repository that logs to logger.
func (r *GormPromotionRepository) WithLogger(logger zerolog.Logger) *GormPromotionRepository {
	return &GormPromotionRepository{db: r.db, logger: logger}
}

// Create inserts the promotion and fills in its generated PromotionID. Any
// identifier already on the record is discarded.
func (r *GormPromotionRepository) Create(ctx context.Context, promotion *models.Promotion) error {
	r.logger.Info().Str("promotion_name", promotion.PromotionName).Msg("Creating promotion")
	promotion.PromotionID = 0

	return r.inTransaction(ctx, promotion, "creating", func(tx *gorm.DB) error {
		return tx.Create(promotion).Error
	})
}

// Update writes every column of an existing promotion.
func (r *GormPromotionRepository) Update(ctx context.Context, promotion *models.Promotion) error {
	r.logger.Info().Str("promotion_name", promotion.PromotionName).Int64("promotion_id", promotion.PromotionID).Msg("Saving promotion")
	if !promotion.IsPersisted() {
		return models.NewDataValidationError("cannot update %s: promotion_id is not set", promotion)
	}

	return r.inTransaction(ctx, promotion, "updating", func(tx *gorm.DB) error {
		result := tx.Model(promotion).Select("*").Omit("promotion_id").Updates(promotion)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Delete removes the promotion's row.
func (r *GormPromotionRepository) Delete(ctx context.Context, promotion *models.Promotion) error {
	r.logger.Info().Str("promotion_name", promotion.PromotionName).Int64("promotion_id", promotion.PromotionID).Msg("Deleting promotion")
	if !promotion.IsPersisted() {
		return models.NewDataValidationError("cannot delete %s: promotion_id is not set", promotion)
	}

	return r.inTransaction(ctx, promotion, "deleting", func(tx *gorm.DB) error {
		result := tx.Delete(&models.Promotion{}, promotion.PromotionID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// All returns every promotion ordered by identifier.
func (r *GormPromotionRepository) All(ctx context.Context) ([]models.Promotion, error) {
	r.logger.Info().Msg("Processing all promotions")
	var promotions []models.Promotion
	if err := r.db.WithContext(ctx).Order("promotion_id").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// Find returns the promotion with the given identifier, or nil if there is
// none.
func (r *GormPromotionRepository) Find(ctx context.Context, id int64) (*models.Promotion, error) {
	r.logger.Info().Int64("promotion_id", id).Msg("Processing lookup for id")
	var promotion models.Promotion
	if err := r.db.WithContext(ctx).First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// FindByName returns all promotions whose name matches exactly.
func (r *GormPromotionRepository) FindByName(ctx context.Context, name string) ([]models.Promotion, error) {
	r.logger.Info().Str("promotion_name", name).Msg("Processing name query")
	var promotions []models.Promotion
	if err := r.db.WithContext(ctx).Where("promotion_name = ?", name).Order("promotion_id").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r *GormPromotionRepository) inTransaction(ctx context.Context, promotion *models.Promotion, action string, fn func(tx *gorm.DB) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		r.logger.Error().Err(tx.Error).Stringer("promotion", promotion).Msgf("Error %s record", action)
		return models.WrapDataValidationError(tx.Error, "error %s promotion", action)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		r.logger.Error().Err(err).Stringer("promotion", promotion).Msgf("Error %s record", action)
		return wrapWriteError(err, action)
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		r.logger.Error().Err(err).Stringer("promotion", promotion).Msgf("Error %s record", action)
		return wrapWriteError(err, action)
	}
	return nil
}

// wrapWriteError keeps a validation error raised by a model hook as is.
func wrapWriteError(err error, action string) error {
	var dve *models.DataValidationError
	if errors.As(err, &dve) {
		return dve
	}
	return models.WrapDataValidationError(err, "error %s promotion", action)
}

var _ PromotionRepository = (*GormPromotionRepository)(nil)
