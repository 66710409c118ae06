package queue

import (
	"encoding/json"
	"strings"

	"github.com/souq-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskProfitReconcile 代发利润对账任务
	TaskProfitReconcile = constants.TaskProfitReconcile
)

// ProfitReconcilePayload 利润对账任务载荷
type ProfitReconcilePayload struct {
	Trigger     string `json:"trigger"`
	RequestedBy uint   `json:"requested_by,omitempty"`
}

// NewProfitReconcileTask 创建利润对账任务
func NewProfitReconcileTask(payload ProfitReconcilePayload) (*asynq.Task, error) {
	if strings.TrimSpace(payload.Trigger) == "" {
		payload.Trigger = constants.ReconcileTriggerManual
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProfitReconcile, body), nil
}

// ParseProfitReconcilePayload 解析利润对账任务载荷
func ParseProfitReconcilePayload(body []byte) (ProfitReconcilePayload, error) {
	var payload ProfitReconcilePayload
	if len(body) == 0 {
		payload.Trigger = constants.ReconcileTriggerManual
		return payload, nil
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, err
	}
	if strings.TrimSpace(payload.Trigger) == "" {
		payload.Trigger = constants.ReconcileTriggerManual
	}
	return payload, nil
}
