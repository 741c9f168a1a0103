package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/types"
)

type CareGapRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CareGap, error)
	ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, rows []*types.CareGap) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type careGapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCareGapRepo(db *gorm.DB, baseLog *logger.Logger) CareGapRepo {
	return &careGapRepo{db: db, log: baseLog.With("repo", "CareGapRepo")}
}

func (r *careGapRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CareGap, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CareGap
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

// ReplaceForUser swaps the stored gap set for a user in one transaction;
// detection runs replace rather than diff.
func (r *careGapRepo) ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, rows []*types.CareGap) error {
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
			Delete(&types.CareGap{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return inner.Create(&rows).Error
	})
}

func (r *careGapRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.CareGap{}).Error; err != nil {
		return err
	}
	return nil
}
