package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/types"
)

type OptimizationRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TimelineOptimization, error)
	ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, rows []*types.TimelineOptimization) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type optimizationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOptimizationRepo(db *gorm.DB, baseLog *logger.Logger) OptimizationRepo {
	return &optimizationRepo{db: db, log: baseLog.With("repo", "OptimizationRepo")}
}

func (r *optimizationRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TimelineOptimization, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TimelineOptimization
	if userID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *optimizationRepo) ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, rows []*types.TimelineOptimization) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if userID == uuid.Nil {
		return nil
	}

	return transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		if err := inner.
			Unscoped().
			Where("user_id = ?", userID).
			Delete(&types.TimelineOptimization{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return inner.Create(&rows).Error
	})
}

func (r *optimizationRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.TimelineOptimization{}).Error; err != nil {
		return err
	}
	return nil
}
