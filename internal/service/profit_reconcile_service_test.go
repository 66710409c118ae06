package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/repository"

	"github.com/shopspring/decimal"
)

type failingProfitOrderRepo struct {
	repository.OrderRepository
	failOrderID uint
	writes      int
}

func (r *failingProfitOrderRepo) UpdateDropshipperProfit(ctx context.Context, orderID uint, amount decimal.Decimal, at time.Time) (int64, error) {
	r.writes++
	if orderID == r.failOrderID {
		return 0, errors.New("write failed")
	}
	return r.OrderRepository.UpdateDropshipperProfit(ctx, orderID, amount, at)
}

type heldLock struct{}

func (heldLock) TryLock(context.Context, string, time.Duration) (string, bool, error) {
	return "", false, nil
}

func (heldLock) Unlock(context.Context, string, string) error { return nil }

type recordingLock struct {
	acquired []string
	released []string
}

func (l *recordingLock) TryLock(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	l.acquired = append(l.acquired, key)
	return "token", true, nil
}

func (l *recordingLock) Unlock(_ context.Context, key, token string) error {
	l.released = append(l.released, key+":"+token)
	return nil
}

func seedProfitScenario(t *testing.T, env *serviceTestEnv) (*models.Order, *models.Order) {
	t.Helper()
	a := env.createProduct(t, models.Product{OwnerID: 1, Name: "A", Price: models.NewMoney("80"), DropshippingPrice: models.NewMoney("50"), PurchasePrice: models.NewMoney("30")})
	b := env.createProduct(t, models.Product{OwnerID: 1, Name: "B", Price: models.NewMoney("40"), DropshippingPrice: models.NewMoney("20"), PurchasePrice: models.NewMoney("10")})
	scenario := env.createOrder(t, models.Order{
		CreatedBy:      1,
		OrderCountry:   "UAE",
		ShipmentStatus: constants.ShipmentStatusDelivered,
		Total:          models.NewMoney("150"),
		Items:          []models.OrderItem{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 1}},
	})
	legacy := env.createOrder(t, models.Order{
		CreatedBy:      1,
		OrderCountry:   "KSA",
		ShipmentStatus: constants.ShipmentStatusDelivered,
		Total:          models.NewMoney("70"),
		ProductID:      &b.ID,
		Quantity:       3,
	})
	// 已有正利润、未签收、金额为 0 的订单都不参与
	env.createOrder(t, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusDelivered, Total: models.NewMoney("90"), DropshipperProfitAmount: models.NewMoney("5"), Items: []models.OrderItem{{ProductID: a.ID, Quantity: 1}}})
	env.createOrder(t, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusInTransit, Total: models.NewMoney("90"), Items: []models.OrderItem{{ProductID: a.ID, Quantity: 1}}})
	env.createOrder(t, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusDelivered, Items: []models.OrderItem{{ProductID: a.ID, Quantity: 1}}})
	return scenario, legacy
}

func TestProfitReconcileCorrectsAndIsIdempotent(t *testing.T) {
	env := newServiceTestEnv(t, "reconcile_idempotent")
	scenario, legacy := seedProfitScenario(t, env)
	lock := &recordingLock{}
	svc := NewProfitReconcileService(env.orderRepo, env.productRepo, env.runRepo, lock, ProfitReconcileOptions{})
	ctx := context.Background()

	first, err := svc.Run(ctx, constants.ReconcileTriggerManual, adminScope())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if first.Scanned != 2 || first.Corrected != 2 {
		t.Fatalf("first run want scanned=2 corrected=2 got %+v", first)
	}
	stored, _ := env.orderRepo.GetByID(ctx, scenario.ID)
	if stored.DropshipperProfitAmount.String() != "60.00" {
		t.Fatalf("scenario profit want 60 got %s", stored.DropshipperProfitAmount)
	}
	// 单品旧订单：20 + 10*2 = 40，利润 30
	stored, _ = env.orderRepo.GetByID(ctx, legacy.ID)
	if stored.DropshipperProfitAmount.String() != "30.00" {
		t.Fatalf("legacy profit want 30 got %s", stored.DropshipperProfitAmount)
	}

	second, err := svc.Run(ctx, constants.ReconcileTriggerManual, adminScope())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if second.Scanned != 0 || second.Corrected != 0 {
		t.Fatalf("second run must write nothing, got %+v", second)
	}
	if len(lock.acquired) != 2 || len(lock.released) != 2 {
		t.Fatalf("lock should be acquired and released per run: %+v", lock)
	}

	latest, err := env.runRepo.LatestFinished(ctx)
	if err != nil || latest == nil {
		t.Fatalf("latest run missing: %v", err)
	}
	if latest.RunID != second.RunID || latest.Trigger != constants.ReconcileTriggerManual {
		t.Fatalf("latest run should be the second one: %+v", latest)
	}
}

func TestProfitReconcileSkipsZeroProfitWithinEpsilon(t *testing.T) {
	env := newServiceTestEnv(t, "reconcile_epsilon")
	product := env.createProduct(t, models.Product{OwnerID: 1, Name: "Thin", DropshippingPrice: models.NewMoney("100"), PurchasePrice: models.NewMoney("100")})
	env.createOrder(t, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusDelivered, Total: models.NewMoney("100.01"), Items: []models.OrderItem{{ProductID: product.ID, Quantity: 1}}})
	repo := &failingProfitOrderRepo{OrderRepository: env.orderRepo}
	svc := NewProfitReconcileService(repo, env.productRepo, env.runRepo, nil, ProfitReconcileOptions{})

	result, err := svc.Run(context.Background(), constants.ReconcileTriggerSchedule, adminScope())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Skipped != 1 || repo.writes != 0 {
		t.Fatalf("difference within 0.01 should be skipped without writing, got %+v writes=%d", result, repo.writes)
	}
}

func TestProfitReconcileWriteFailureDoesNotBlockOthers(t *testing.T) {
	env := newServiceTestEnv(t, "reconcile_failure")
	scenario, legacy := seedProfitScenario(t, env)
	repo := &failingProfitOrderRepo{OrderRepository: env.orderRepo, failOrderID: scenario.ID}
	svc := NewProfitReconcileService(repo, env.productRepo, env.runRepo, nil, ProfitReconcileOptions{})
	ctx := context.Background()

	result, err := svc.Run(ctx, constants.ReconcileTriggerSchedule, adminScope())
	if err != nil {
		t.Fatalf("run should not fail on a single write error: %v", err)
	}
	if result.Failed != 1 || result.Corrected != 1 {
		t.Fatalf("want failed=1 corrected=1 got %+v", result)
	}
	stored, _ := env.orderRepo.GetByID(ctx, legacy.ID)
	if !stored.DropshipperProfitAmount.IsPositive() {
		t.Fatalf("other orders should still be corrected")
	}
	stored, _ = env.orderRepo.GetByID(ctx, scenario.ID)
	if stored.DropshipperProfitAmount.IsPositive() {
		t.Fatalf("failed order should keep its stored value")
	}
}

func TestProfitReconcileSkipsUnknownProducts(t *testing.T) {
	env := newServiceTestEnv(t, "reconcile_unknown")
	env.createOrder(t, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusDelivered, Total: models.NewMoney("10"), Items: []models.OrderItem{{ProductID: 4242, Quantity: 1}}})
	svc := NewProfitReconcileService(env.orderRepo, env.productRepo, env.runRepo, nil, ProfitReconcileOptions{})

	result, err := svc.Run(context.Background(), constants.ReconcileTriggerSchedule, adminScope())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Skipped != 1 || result.Corrected != 0 {
		t.Fatalf("unknown product order should be skipped, got %+v", result)
	}
}

func TestProfitReconcileRespectsScopeAndLock(t *testing.T) {
	env := newServiceTestEnv(t, "reconcile_scope")
	seedProfitScenario(t, env)
	svc := NewProfitReconcileService(env.orderRepo, env.productRepo, env.runRepo, nil, ProfitReconcileOptions{})

	result, err := svc.Run(context.Background(), constants.ReconcileTriggerRead, sellerScope(2))
	if err != nil {
		t.Fatalf("scoped run failed: %v", err)
	}
	if result.Scanned != 0 {
		t.Fatalf("seller 2 has no orders, scanned %d", result.Scanned)
	}

	locked := NewProfitReconcileService(env.orderRepo, env.productRepo, env.runRepo, heldLock{}, ProfitReconcileOptions{})
	if _, err := locked.Run(context.Background(), constants.ReconcileTriggerManual, adminScope()); !errors.Is(err, ErrReconcileRunning) {
		t.Fatalf("held lock want ErrReconcileRunning got %v", err)
	}
}
