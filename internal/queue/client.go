package queue

import (
	"context"
	"errors"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 对账任务所在队列
const DefaultQueue = constants.QueueDefault

const (
	defaultConcurrency      = 10
	defaultReconcileRetry   = 3
	defaultReconcileTimeout = 10 * time.Minute
	defaultReconcileUnique  = time.Minute
)

var (
	// ErrQueueDisabled 队列未启用
	ErrQueueDisabled = errors.New("queue disabled")
	// ErrDuplicateTask 唯一窗口内已有待执行的对账任务
	ErrDuplicateTask = errors.New("task already queued")
)

// reconcilePolicy 对账任务投递参数
type reconcilePolicy struct {
	maxRetry int
	timeout  time.Duration
	unique   time.Duration
}

func newReconcilePolicy(cfg *config.QueueConfig) reconcilePolicy {
	policy := reconcilePolicy{
		maxRetry: defaultReconcileRetry,
		timeout:  defaultReconcileTimeout,
		unique:   defaultReconcileUnique,
	}
	if cfg == nil {
		return policy
	}
	if cfg.ReconcileMaxRetry > 0 {
		policy.maxRetry = cfg.ReconcileMaxRetry
	}
	if cfg.ReconcileTimeoutSeconds > 0 {
		policy.timeout = time.Duration(cfg.ReconcileTimeoutSeconds) * time.Second
	}
	if cfg.ReconcileUniqueSeconds > 0 {
		policy.unique = time.Duration(cfg.ReconcileUniqueSeconds) * time.Second
	}
	return policy
}

func (p reconcilePolicy) options() []asynq.Option {
	return []asynq.Option{
		asynq.Queue(DefaultQueue),
		asynq.MaxRetry(p.maxRetry),
		asynq.Timeout(p.timeout),
		asynq.Unique(p.unique),
	}
}

// Client 对账任务生产端；未启用时所有投递返回 ErrQueueDisabled
type Client struct {
	client    *asynq.Client
	reconcile reconcilePolicy
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	c := &Client{reconcile: newReconcilePolicy(cfg)}
	if cfg != nil && cfg.Enabled {
		c.client = asynq.NewClient(redisOpt(cfg))
	}
	return c, nil
}

// Enabled 是否可投递
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueProfitReconcile 投递利润对账任务，返回任务 ID
func (c *Client) EnqueueProfitReconcile(ctx context.Context, payload ProfitReconcilePayload) (string, error) {
	if !c.Enabled() {
		return "", ErrQueueDisabled
	}
	task, err := NewProfitReconcileTask(payload)
	if err != nil {
		return "", err
	}
	info, err := c.client.EnqueueContext(ctx, task, c.reconcile.options()...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return "", ErrDuplicateTask
	}
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// BuildServerConfig worker 端连接与并发配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: defaultConcurrency,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg == nil {
		return redisOpt(&config.QueueConfig{}), serverCfg
	}
	if cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return redisOpt(cfg), serverCfg
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
