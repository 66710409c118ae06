package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunLock 跨实例互斥锁
type RunLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Unlock(ctx context.Context, key, token string) error
}

// ProfitReconcileOptions 对账参数
type ProfitReconcileOptions struct {
	Epsilon decimal.Decimal
	LockTTL time.Duration
}

// ReconcileResult 单次对账结果
type ReconcileResult struct {
	RunID      string    `json:"run_id"`
	Trigger    string    `json:"trigger"`
	Scanned    int       `json:"scanned"`
	Corrected  int       `json:"corrected"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// ProfitReconcileService 代发利润对账服务
// 修正已签收、金额为正但利润缺失或非正的订单，可重复执行。
type ProfitReconcileService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	runRepo     repository.ReconcileRunRepository
	lock        RunLock
	opts        ProfitReconcileOptions
	mu          sync.Mutex
	now         func() time.Time
}

// NewProfitReconcileService 创建对账服务
func NewProfitReconcileService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	runRepo repository.ReconcileRunRepository,
	lock RunLock,
	opts ProfitReconcileOptions,
) *ProfitReconcileService {
	if !opts.Epsilon.IsPositive() {
		opts.Epsilon = decimal.NewFromFloat(0.01)
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 5 * time.Minute
	}
	return &ProfitReconcileService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		runRepo:     runRepo,
		lock:        lock,
		opts:        opts,
		now:         time.Now,
	}
}

// Run 执行一次对账
func (s *ProfitReconcileService) Run(ctx context.Context, trigger string, scope Scope) (*ReconcileResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrReconcileRunning
	}
	defer s.mu.Unlock()

	if s.lock != nil {
		token, ok, err := s.lock.TryLock(ctx, constants.ProfitReconcileLockKey, s.opts.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire reconcile lock: %w", err)
		}
		if !ok {
			return nil, ErrReconcileRunning
		}
		defer func() {
			if err := s.lock.Unlock(context.Background(), constants.ProfitReconcileLockKey, token); err != nil {
				logger.Warnw("profit_reconcile_unlock_failed", "error", err)
			}
		}()
	}

	result := &ReconcileResult{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: s.now(),
	}
	run := &models.ReconcileRun{
		RunID:     result.RunID,
		Trigger:   trigger,
		StartedAt: result.StartedAt,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create reconcile run: %w", err)
	}

	runErr := s.reconcile(ctx, result, scope)

	result.FinishedAt = s.now()
	run.Scanned = result.Scanned
	run.Corrected = result.Corrected
	run.Skipped = result.Skipped
	run.Failed = result.Failed
	run.FinishedAt = &result.FinishedAt
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := s.runRepo.Update(context.Background(), run); err != nil {
		logger.Warnw("profit_reconcile_run_save_failed", "run_id", run.RunID, "error", err)
	}

	logger.Infow("profit_reconcile_finished",
		"run_id", result.RunID,
		"trigger", trigger,
		"scanned", result.Scanned,
		"corrected", result.Corrected,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration", result.FinishedAt.Sub(result.StartedAt),
	)
	return result, runErr
}

func (s *ProfitReconcileService) reconcile(ctx context.Context, result *ReconcileResult, scope Scope) error {
	orders, err := s.orderRepo.ListProfitCandidates(ctx, scope.Workspace())
	if err != nil {
		return fmt.Errorf("list profit candidates: %w", err)
	}
	result.Scanned = len(orders)
	if len(orders) == 0 {
		return nil
	}

	unified := make([][]lineItem, len(orders))
	productIDs := make([]uint, 0)
	seen := make(map[uint]struct{})
	for i, order := range orders {
		unified[i] = unifyOrderItems(order)
		for _, line := range unified[i] {
			if _, ok := seen[line.ProductID]; ok {
				continue
			}
			seen[line.ProductID] = struct{}{}
			productIDs = append(productIDs, line.ProductID)
		}
	}
	products, err := s.productRepo.ListByIDs(ctx, productIDs)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	productMap := make(map[uint]*models.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	for i, order := range orders {
		if err := ctx.Err(); err != nil {
			return err
		}
		profit, ok := allocateDropshipperProfit(unified[i], order.Total.Decimal, productMap)
		if !ok {
			result.Skipped++
			logger.Warnw("profit_reconcile_order_skipped", "order_id", order.ID, "reason", "unknown_product")
			continue
		}
		if profit.Sub(order.DropshipperProfitAmount.Decimal).Abs().LessThanOrEqual(s.opts.Epsilon) {
			result.Skipped++
			continue
		}
		affected, err := s.orderRepo.UpdateDropshipperProfit(ctx, order.ID, profit, s.now())
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			result.Failed++
			logger.Errorw("profit_reconcile_write_failed", "order_id", order.ID, "profit", profit.StringFixed(2), "error", err)
			continue
		}
		if affected == 0 {
			result.Skipped++
			continue
		}
		result.Corrected++
	}
	return nil
}
