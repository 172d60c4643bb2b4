package internal

import (
	"context"
	"errors"
	"fmt"
	"redsys-orders/entity"
	"redsys-orders/services"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/leekchan/accounting"
)

const (
	GatewayMethod = "redsys"

	defaultStaleThreshold = 10 * time.Minute
	defaultBatchLimit     = 100
)

// Reconciler cancels gateway orders left pending longer than the stale threshold.
// Runs for the same scope never overlap; a second run returns ErrSweepInProgress.
type Reconciler struct {
	orders     services.OrderStore
	config     services.ConfigResolver
	logger     services.LogHandler
	notifier   services.Notifier
	clock      services.Clock
	threshold  time.Duration
	batchLimit int64
	locks      sync.Map // map[string]*sync.Mutex, one per scope
}

func NewReconciler(orders services.OrderStore, config services.ConfigResolver) *Reconciler {
	return &Reconciler{
		orders:     orders,
		config:     config,
		logger:     nopLogger{},
		clock:      time.Now,
		threshold:  defaultStaleThreshold,
		batchLimit: defaultBatchLimit,
	}
}

func (r *Reconciler) SetLogger(logger services.LogHandler) {
	r.logger = logger
}

func (r *Reconciler) SetNotifier(notifier services.Notifier) {
	r.notifier = notifier
}

func (r *Reconciler) SetClock(clock services.Clock) {
	r.clock = clock
}

func (r *Reconciler) SetThreshold(threshold time.Duration) {
	if threshold > 0 {
		r.threshold = threshold
	}
}

func (r *Reconciler) SetBatchLimit(limit int64) {
	if limit > 0 {
		r.batchLimit = limit
	}
}

// Run performs one sweep for the store scope. Only a failed search aborts the sweep;
// per-order failures are counted in the result. An interrupted sweep returns the partial
// result together with the context error.
func (r *Reconciler) Run(ctx context.Context, scope string) (*entity.SweepResult, error) {
	result := &entity.SweepResult{Scope: scope, Started: r.clock()}

	enabled, err := CancelPendingEnabled(ctx, r.config, scope)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", KeyCancelPendingOrders, err)
	}
	if !enabled {
		result.Finished = result.Started
		return result, nil
	}
	result.Enabled = true

	mutex := r.lockScope(scope)
	if mutex == nil {
		r.logger.Warn(fmt.Sprintf("scope %s: previous sweep still running", scope))
		return nil, fmt.Errorf("scope %s: %w", scope, ErrSweepInProgress)
	}
	defer mutex.Unlock()

	now := r.clock()
	criteria := &entity.SearchCriteria{PageSize: r.batchLimit}
	criteria.AddGroup(entity.Filter{Field: "updated_at", Condition: entity.ConditionTo, Value: now.Add(-r.threshold)})
	criteria.AddGroup(entity.Filter{Field: "status", Condition: entity.ConditionEq, Value: entity.StatusPending})
	if scope != "" {
		criteria.AddGroup(entity.Filter{Field: "store_id", Condition: entity.ConditionEq, Value: scope})
	}

	comment := fmt.Sprintf("Order cancelled because it was idle for more than %d minutes", int(r.threshold.Minutes()))
	// Cancelled orders leave the pending filter; skipped and failed ones stay and are paged past.
	// The batch limit bounds cancellations per run, not matches.
	for result.Cancelled < int(r.batchLimit) && ctx.Err() == nil {
		r.logger.Debug(fmt.Sprintf("scope %s: retrieving orders to cancel; offset %d", scope, criteria.Offset))
		orders, err := r.orders.SearchOrders(ctx, criteria)
		if err != nil {
			r.logger.Error(fmt.Sprintf("scope %s: search pending orders", scope), err)
			return nil, fmt.Errorf("search pending orders: %w", err)
		}
		result.Matched += len(orders)

		for _, order := range orders {
			if ctx.Err() != nil || result.Cancelled >= int(r.batchLimit) {
				break
			}
			cancelled, err := r.cancelOrder(ctx, order, comment)
			switch {
			case err != nil:
				result.Failed++
				criteria.Offset++
				failure := &ItemFailure{Order: order.IncrementId, Err: err}
				result.Errors = append(result.Errors, entity.ItemError{Order: failure.Order, Error: err.Error()})
				r.logger.Error(fmt.Sprintf("scope %s: cancel", scope), failure)
			case cancelled:
				result.Cancelled++
			default:
				result.Skipped++
				criteria.Offset++
			}
		}
		if int64(len(orders)) < r.batchLimit {
			break
		}
	}

	result.Finished = r.clock()
	r.report(result)
	if err = ctx.Err(); err != nil {
		return result, fmt.Errorf("scope %s: sweep interrupted: %w", scope, err)
	}
	return result, nil
}

func (r *Reconciler) cancelOrder(ctx context.Context, order *entity.Order, comment string) (bool, error) {
	method := order.PaymentMethod()
	if method == "" {
		return false, errors.New("order has no payment method")
	}
	r.logger.Debug(fmt.Sprintf("checking order %s; method %s", order.IncrementId, method))
	if method != GatewayMethod {
		return false, nil
	}

	now := r.clock()
	r.logger.Info(fmt.Sprintf("cancel order %s; total %s; updated %s", order.IncrementId, formatTotal(order), humanize.RelTime(order.UpdatedAt, now, "ago", "from now")))
	order.Cancel(now)
	order.AddStatusHistoryComment(comment, false, now)
	if err := r.orders.UpdateOrder(ctx, order); err != nil {
		return false, fmt.Errorf("update order: %w", err)
	}
	return true, nil
}

func (r *Reconciler) report(result *entity.SweepResult) {
	observeSweep(result.Scope, "cancelled", result.Cancelled)
	observeSweep(result.Scope, "skipped", result.Skipped)
	observeSweep(result.Scope, "failed", result.Failed)
	observeSweepDuration(result.Scope, result.Finished.Sub(result.Started).Seconds())

	text := fmt.Sprintf("scope %s: sweep done; matched %d; cancelled %d; skipped %d; failed %d",
		result.Scope, result.Matched, result.Cancelled, result.Skipped, result.Failed)
	if result.Failed == 0 {
		r.logger.Info(text)
		return
	}
	r.logger.Warn(text)
	if r.notifier != nil {
		if err := r.notifier.Notify(text); err != nil {
			r.logger.Error("notify sweep failures", err)
		}
	}
}

// lockScope returns the locked scope mutex, or nil when a sweep for the scope is running.
func (r *Reconciler) lockScope(scope string) *sync.Mutex {
	value, _ := r.locks.LoadOrStore(scope, &sync.Mutex{})
	mutex := value.(*sync.Mutex)
	if !mutex.TryLock() {
		return nil
	}
	return mutex
}

func formatTotal(order *entity.Order) string {
	if order.GrandTotal == nil {
		return "?"
	}
	ac := accounting.DefaultAccounting(order.Currency+" ", 2)
	return ac.FormatMoney(*order.GrandTotal)
}
