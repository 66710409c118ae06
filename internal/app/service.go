package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

const defaultStopTimeout = 10 * time.Second

// Service 可被 Runner 托管的长生命周期组件（HTTP、队列 worker、对账调度器）
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 服务运行器
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// RunWithOptions 运行服务，收到 opts.Signals 中任一信号即优雅退出
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)

	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, opts.Signals...)
		defer stop()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 并发启动全部服务，任一服务退出或 ctx 结束后按逆序停止
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	exited := r.startAll(runCtx, log)
	var runErr error
	select {
	case <-runCtx.Done():
		runErr = runCtx.Err()
	case runErr = <-exited:
	}
	cancel()

	if stopErr := r.stopAll(stopTimeout, log); stopErr != nil {
		log.Warnw("service_stop_incomplete", "error", stopErr)
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func (r *Runner) startAll(ctx context.Context, log *zap.SugaredLogger) <-chan error {
	exited := make(chan error, len(r.services))
	for idx, svc := range r.services {
		go func(idx int, svc Service) {
			if svc == nil {
				exited <- fmt.Errorf("service #%d is nil", idx)
				return
			}
			name := svc.Name()
			log.Infow("service_start", "service", name)
			err := svc.Start(ctx)
			log.Infow("service_exit", "service", name, "error", err)
			exited <- err
		}(idx, svc)
	}
	return exited
}

// stopAll 逆序停止，后启动的服务先退出
func (r *Runner) stopAll(timeout time.Duration, log *zap.SugaredLogger) error {
	if timeout <= 0 {
		timeout = defaultStopTimeout
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		if svc == nil {
			continue
		}
		startedAt := time.Now()
		if err := svc.Stop(stopCtx); err != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", svc.Name(), err))
			continue
		}
		log.Infow("service_stopped", "service", svc.Name(), "elapsed_ms", time.Since(startedAt).Milliseconds())
	}
	return errors.Join(errs...)
}
