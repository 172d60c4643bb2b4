package internal

import (
	"context"
	"errors"
	"fmt"
	"redsys-orders/services"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// Ticker runs the reconciler for every scope at a fixed interval on a bounded goroutine pool.
type Ticker struct {
	reconciler services.Reconciler
	logger     services.LogHandler
	interval   time.Duration
	scopes     []string
	pool       *ants.Pool
	wg         sync.WaitGroup
}

func NewTicker(reconciler services.Reconciler, interval time.Duration, scopes []string, poolSize int) (*Ticker, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid interval %v", interval)
	}
	if len(scopes) == 0 {
		scopes = []string{""}
	}
	t := &Ticker{
		reconciler: reconciler,
		logger:     nopLogger{},
		interval:   interval,
		scopes:     scopes,
	}
	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(true), ants.WithPanicHandler(func(p interface{}) {
		t.logger.Error("sweep panic", fmt.Errorf("panic: %v", p))
	}))
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	t.pool = pool
	return t, nil
}

func (t *Ticker) SetLogger(logger services.LogHandler) {
	t.logger = logger
}

// Start blocks, triggering sweeps on each tick until the context is cancelled.
func (t *Ticker) Start(ctx context.Context) {
	t.logger.Info(fmt.Sprintf("scheduler started: interval %v; scopes %v", t.interval, t.scopes))
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			t.wg.Wait()
			t.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			t.Trigger(ctx)
		}
	}
}

// Trigger submits one sweep per scope to the pool.
func (t *Ticker) Trigger(ctx context.Context) {
	for _, scope := range t.scopes {
		scope := scope
		t.wg.Add(1)
		err := t.pool.Submit(func() {
			defer t.wg.Done()
			t.run(ctx, scope)
		})
		if err != nil {
			t.wg.Done()
			t.logger.Warn(fmt.Sprintf("scope %s: sweep not scheduled: %v", scope, err))
		}
	}
}

// Wait blocks until submitted sweeps are finished.
func (t *Ticker) Wait() {
	t.wg.Wait()
}

func (t *Ticker) Stop() {
	t.pool.Release()
}

func (t *Ticker) run(ctx context.Context, scope string) {
	result, err := t.reconciler.Run(ctx, scope)
	if errors.Is(err, ErrSweepInProgress) {
		return
	}
	if err != nil {
		if result != nil {
			t.logger.Warn(fmt.Sprintf("scope %s: sweep stopped early; matched %d; cancelled %d; skipped %d; failed %d",
				scope, result.Matched, result.Cancelled, result.Skipped, result.Failed))
		}
		t.logger.Error(fmt.Sprintf("scope %s: sweep", scope), err)
		return
	}
	if !result.Enabled {
		t.logger.Debug(fmt.Sprintf("scope %s: pending order cancellation disabled", scope))
	}
}
