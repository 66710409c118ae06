package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/country"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"
)

// FinanceService 财务流水服务
type FinanceService struct {
	orderRepo       repository.OrderRepository
	runRepo         repository.ReconcileRunRepository
	reconciler      *ProfitReconcileService
	reconcileOnRead bool
}

// NewFinanceService 创建财务服务
func NewFinanceService(
	orderRepo repository.OrderRepository,
	runRepo repository.ReconcileRunRepository,
	reconciler *ProfitReconcileService,
	reconcileOnRead bool,
) *FinanceService {
	return &FinanceService{
		orderRepo:       orderRepo,
		runRepo:         runRepo,
		reconciler:      reconciler,
		reconcileOnRead: reconcileOnRead,
	}
}

// FinanceListInput 财务流水查询输入
type FinanceListInput struct {
	Page     int
	PageSize int
	IsPaid   *bool
}

// FinanceRow 单条已签收订单财务记录
type FinanceRow struct {
	OrderID                 uint         `json:"order_id"`
	OrderNo                 string       `json:"order_no"`
	Country                 string       `json:"country"`
	Currency                string       `json:"currency"`
	Total                   models.Money `json:"total"`
	Discount                models.Money `json:"discount"`
	DropshipperProfitAmount models.Money `json:"dropshipper_profit_amount"`
	DropshipperProfitIsPaid bool         `json:"dropshipper_profit_is_paid"`
	DropshipperProfitPaidAt *time.Time   `json:"dropshipper_profit_paid_at,omitempty"`
	ProfitReconciledAt      *time.Time   `json:"profit_reconciled_at,omitempty"`
	DeliveredAt             *time.Time   `json:"delivered_at,omitempty"`
}

// FinanceTotals 代发利润汇总
type FinanceTotals struct {
	TotalAmount  models.Money `json:"total_amount"`
	PaidAmount   models.Money `json:"paid_amount"`
	UnpaidAmount models.Money `json:"unpaid_amount"`
}

// FinanceListResult 财务流水结果
type FinanceListResult struct {
	Rows             []FinanceRow  `json:"rows"`
	Total            int64         `json:"total"`
	Totals           FinanceTotals `json:"totals"`
	LastReconciledAt *time.Time    `json:"last_reconciled_at"`
}

// List 已签收订单财务流水
// 汇总不受是否结算筛选影响，始终覆盖范围内全部已签收订单。
func (s *FinanceService) List(ctx context.Context, scope Scope, input FinanceListInput) (*FinanceListResult, error) {
	if input.Page < 0 || input.PageSize < 0 {
		return nil, ErrInvalidPagination
	}
	if s.reconcileOnRead && s.reconciler != nil {
		if _, err := s.reconciler.Run(ctx, constants.ReconcileTriggerRead, scope); err != nil {
			if !errors.Is(err, ErrReconcileRunning) {
				logger.Warnw("finance_reconcile_on_read_failed", "user_id", scope.UserID, "error", err)
			}
		}
	}

	filter := repository.FinanceOrderFilter{
		Page:      input.Page,
		PageSize:  input.PageSize,
		Workspace: scope.Workspace(),
		IsPaid:    input.IsPaid,
	}
	orders, total, err := s.orderRepo.ListFinance(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list finance orders: %w", err)
	}
	filter.IsPaid = nil
	sums, err := s.orderRepo.SumFinance(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("sum finance orders: %w", err)
	}

	result := &FinanceListResult{
		Rows:  make([]FinanceRow, 0, len(orders)),
		Total: total,
		Totals: FinanceTotals{
			TotalAmount:  models.NewMoneyFromDecimal(sums.TotalAmount),
			PaidAmount:   models.NewMoneyFromDecimal(sums.PaidAmount),
			UnpaidAmount: models.NewMoneyFromDecimal(sums.UnpaidAmount),
		},
	}
	for _, order := range orders {
		code := country.Normalize(order.OrderCountry)
		result.Rows = append(result.Rows, FinanceRow{
			OrderID:                 order.ID,
			OrderNo:                 order.OrderNo,
			Country:                 code,
			Currency:                resolveOrderCurrency(order, code),
			Total:                   order.Total,
			Discount:                order.Discount,
			DropshipperProfitAmount: order.DropshipperProfitAmount,
			DropshipperProfitIsPaid: order.DropshipperProfitIsPaid,
			DropshipperProfitPaidAt: order.DropshipperProfitPaidAt,
			ProfitReconciledAt:      order.ProfitReconciledAt,
			DeliveredAt:             order.DeliveredAt,
		})
	}

	run, err := s.runRepo.LatestFinished(ctx)
	if err != nil {
		logger.Warnw("finance_last_reconciled_lookup_failed", "error", err)
	} else if run != nil {
		result.LastReconciledAt = run.FinishedAt
	}
	return result, nil
}
