package admin

import (
	"errors"
	"time"

	"github.com/souq-next/internal/constants"
	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/i18n"
	"github.com/souq-next/internal/queue"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
)

// FinanceListResponse 财务流水返回
type FinanceListResponse struct {
	Rows             []service.FinanceRow  `json:"rows"`
	Totals           service.FinanceTotals `json:"totals"`
	LastReconciledAt *time.Time            `json:"last_reconciled_at"`
}

// ReconcileTriggerResponse 对账触发返回
type ReconcileTriggerResponse struct {
	Mode   string                   `json:"mode"` // queued / inline
	TaskID string                   `json:"task_id,omitempty"`
	Result *service.ReconcileResult `json:"result,omitempty"`
}

// ListFinanceOrders 已签收订单财务流水
func (h *Handler) ListFinanceOrders(c *gin.Context) {
	scope, ok := getCallerScope(c)
	if !ok {
		return
	}
	page, pageSize, ok := handlershared.ParsePagination(c)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.pagination_invalid", nil)
		return
	}
	isPaid, ok := handlershared.ParseOptionalBool(c, "is_paid")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.is_paid_invalid", nil)
		return
	}

	result, err := h.FinanceService.List(c.Request.Context(), scope, service.FinanceListInput{
		Page:     page,
		PageSize: pageSize,
		IsPaid:   isPaid,
	})
	if err != nil {
		respondServiceError(c, err, "error.finance_fetch")
		return
	}

	response.SuccessWithPage(c, FinanceListResponse{
		Rows:             result.Rows,
		Totals:           result.Totals,
		LastReconciledAt: result.LastReconciledAt,
	}, response.NewPagination(page, pageSize, result.Total))
}

// TriggerProfitReconcile 触发利润对账
// 启用队列时投递任务，否则在请求内同步执行。
func (h *Handler) TriggerProfitReconcile(c *gin.Context) {
	scope, ok := getCallerScope(c)
	if !ok {
		return
	}
	locale := i18n.ResolveLocale(c)

	if h.QueueClient != nil && h.QueueClient.Enabled() {
		taskID, err := h.QueueClient.EnqueueProfitReconcile(c.Request.Context(), queue.ProfitReconcilePayload{
			Trigger:     constants.ReconcileTriggerManual,
			RequestedBy: scope.UserID,
		})
		if err != nil {
			if errors.Is(err, queue.ErrDuplicateTask) {
				response.SuccessWithMsg(c, i18n.T(locale, "reconcile.already_enqueued"), ReconcileTriggerResponse{Mode: "queued"})
				return
			}
			respondError(c, response.CodeInternal, "error.reconcile_failed", err)
			return
		}
		requestLog(c).Infow("profit_reconcile_enqueued", "task_id", taskID, "caller_id", scope.UserID)
		response.SuccessWithMsg(c, i18n.T(locale, "reconcile.enqueued"), ReconcileTriggerResponse{Mode: "queued", TaskID: taskID})
		return
	}

	result, err := h.ProfitReconcileService.Run(c.Request.Context(), constants.ReconcileTriggerManual, service.UnrestrictedScope())
	if err != nil {
		respondServiceError(c, err, "error.reconcile_failed")
		return
	}
	response.SuccessWithMsg(c, i18n.T(locale, "reconcile.finished"), ReconcileTriggerResponse{Mode: "inline", Result: result})
}

// GetLatestReconcileRun 最近一次成功的对账记录
func (h *Handler) GetLatestReconcileRun(c *gin.Context) {
	if _, ok := getCallerScope(c); !ok {
		return
	}
	run, err := h.ReconcileRunRepo.LatestFinished(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if run == nil {
		respondError(c, response.CodeNotFound, "error.not_found", nil)
		return
	}
	response.Success(c, run)
}
