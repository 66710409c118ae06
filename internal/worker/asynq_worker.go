package worker

import (
	"context"
	"errors"

	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/provider"
	"github.com/souq-next/internal/queue"
	"github.com/souq-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskProfitReconcile, c.handleProfitReconcile)
}

func (c *Consumer) handleProfitReconcile(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Container == nil || c.ProfitReconcileService == nil {
		logger.Debugw("worker_profit_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseProfitReconcilePayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_profit_reconcile_unmarshal_failed", "error", err)
		// 载荷损坏重试无意义
		return errors.Join(err, asynq.SkipRetry)
	}
	return c.runProfitReconcile(ctx, payload.Trigger, payload.RequestedBy)
}

// runProfitReconcile 以全量范围执行一次对账
func (c *Consumer) runProfitReconcile(ctx context.Context, trigger string, requestedBy uint) error {
	log := logger.Component("reconcile").With("trigger", trigger, "requested_by", requestedBy)
	result, err := c.ProfitReconcileService.Run(ctx, trigger, service.UnrestrictedScope())
	if err != nil {
		if errors.Is(err, service.ErrReconcileRunning) {
			log.Infow("worker_profit_reconcile_skip_running")
			return nil
		}
		log.Warnw("worker_profit_reconcile_failed", "error", err)
		return err
	}
	log.Infow("worker_profit_reconcile_done",
		"run_id", result.RunID,
		"scanned", result.Scanned,
		"corrected", result.Corrected,
		"failed", result.Failed,
	)
	return nil
}
