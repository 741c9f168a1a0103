package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/carebridge-backend/internal/pkg/logger"
	"github.com/carebridge/carebridge-backend/internal/types"
)

type CareEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.CareEvent) ([]*types.CareEvent, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CareEvent, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CareEvent, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.CareEvent, error)
	Save(ctx context.Context, tx *gorm.DB, row *types.CareEvent) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type careEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCareEventRepo(db *gorm.DB, baseLog *logger.Logger) CareEventRepo {
	return &careEventRepo{db: db, log: baseLog.With("repo", "CareEventRepo")}
}

func (r *careEventRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.CareEvent) ([]*types.CareEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.CareEvent{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *careEventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CareEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil, nil
	}

	var row types.CareEvent
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *careEventRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CareEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CareEvent
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

func (r *careEventRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.CareEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CareEvent
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *careEventRepo) Save(ctx context.Context, tx *gorm.DB, row *types.CareEvent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil
	}

	if err := transaction.WithContext(ctx).Save(row).Error; err != nil {
		return err
	}
	return nil
}

func (r *careEventRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.CareEvent{}).Error; err != nil {
		return err
	}
	return nil
}
