package repository

import (
	"context"
	"errors"

	"github.com/souq-next/internal/models"

	"gorm.io/gorm"
)

// ReconcileRunRepository 对账执行记录数据访问接口
type ReconcileRunRepository interface {
	Create(ctx context.Context, run *models.ReconcileRun) error
	Update(ctx context.Context, run *models.ReconcileRun) error
	LatestFinished(ctx context.Context) (*models.ReconcileRun, error)
}

// GormReconcileRunRepository GORM 实现
type GormReconcileRunRepository struct {
	db *gorm.DB
}

// NewReconcileRunRepository 创建对账记录仓库
func NewReconcileRunRepository(db *gorm.DB) *GormReconcileRunRepository {
	return &GormReconcileRunRepository{db: db}
}

// Create 创建执行记录
func (r *GormReconcileRunRepository) Create(ctx context.Context, run *models.ReconcileRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Update 更新执行记录
func (r *GormReconcileRunRepository) Update(ctx context.Context, run *models.ReconcileRun) error {
	if run == nil || run.ID == 0 {
		return errors.New("invalid reconcile run")
	}
	return r.db.WithContext(ctx).Save(run).Error
}

// LatestFinished 最近一次完成的执行记录
func (r *GormReconcileRunRepository) LatestFinished(ctx context.Context) (*models.ReconcileRun, error) {
	var run models.ReconcileRun
	if err := r.db.WithContext(ctx).
		Where("finished_at IS NOT NULL AND (error_message IS NULL OR error_message = ?)", "").
		Order("finished_at DESC, id DESC").
		First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}
