package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var testOrderSeq int

func createTestOrder(t *testing.T, db *gorm.DB, order models.Order) *models.Order {
	t.Helper()
	testOrderSeq++
	if order.OrderNo == "" {
		order.OrderNo = fmt.Sprintf("T%d-%d", time.Now().UnixNano(), testOrderSeq)
	}
	if order.ShipmentStatus == "" {
		order.ShipmentStatus = constants.ShipmentStatusPending
	}
	if err := NewOrderRepository(db).Create(context.Background(), &order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &order
}

func uintPtr(v uint) *uint { return &v }

func orderIDs(orders []models.Order) map[uint]bool {
	result := make(map[uint]bool, len(orders))
	for _, order := range orders {
		result[order.ID] = true
	}
	return result
}

func TestListReservingOrdersLifecycle(t *testing.T) {
	db := openRepositoryTestDB(t, "order_reserving")
	repo := NewOrderRepository(db)
	items := func() []models.OrderItem { return []models.OrderItem{{ProductID: 7, Quantity: 1}} }

	pending := createTestOrder(t, db, models.Order{CreatedBy: 1, Items: items()})
	legacy := createTestOrder(t, db, models.Order{CreatedBy: 1, ProductID: uintPtr(7), Quantity: 2})
	unverified := createTestOrder(t, db, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusReturned, Items: items()})
	verified := createTestOrder(t, db, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusCancelled, ReturnVerified: true, Items: items()})
	delivered := createTestOrder(t, db, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusDelivered, Items: items()})
	otherWorkspace := createTestOrder(t, db, models.Order{CreatedBy: 2, Items: items()})
	otherProduct := createTestOrder(t, db, models.Order{CreatedBy: 1, Items: []models.OrderItem{{ProductID: 8, Quantity: 1}}})

	orders, err := repo.ListReservingOrders(context.Background(), []uint{7}, WorkspaceFilter{CreatorIDs: []uint{1}})
	if err != nil {
		t.Fatalf("list reserving failed: %v", err)
	}
	got := orderIDs(orders)
	for _, want := range []*models.Order{pending, legacy, unverified, delivered} {
		if !got[want.ID] {
			t.Fatalf("order %d (%s) should reserve", want.ID, want.ShipmentStatus)
		}
	}
	for _, notWant := range []*models.Order{verified, otherWorkspace, otherProduct} {
		if got[notWant.ID] {
			t.Fatalf("order %d (%s) should not reserve", notWant.ID, notWant.ShipmentStatus)
		}
	}
	for _, order := range orders {
		if order.ID == pending.ID && len(order.Items) != 1 {
			t.Fatalf("items should be preloaded")
		}
	}
}

func TestListReservingOrdersEmptyTargets(t *testing.T) {
	db := openRepositoryTestDB(t, "order_reserving_empty")
	orders, err := NewOrderRepository(db).ListReservingOrders(context.Background(), nil, WorkspaceFilter{Unrestricted: true})
	if err != nil || len(orders) != 0 {
		t.Fatalf("empty targets want no orders, got %d err=%v", len(orders), err)
	}
}

func TestUpdateDropshipperProfitIsConditional(t *testing.T) {
	db := openRepositoryTestDB(t, "order_profit_update")
	repo := NewOrderRepository(db)
	ctx := context.Background()
	order := createTestOrder(t, db, models.Order{
		CreatedBy:      1,
		ShipmentStatus: constants.ShipmentStatusDelivered,
		Total:          models.NewMoneyFromDecimal(decimal.NewFromInt(150)),
		Items:          []models.OrderItem{{ProductID: 1, Quantity: 1}},
	})

	candidates, err := repo.ListProfitCandidates(ctx, WorkspaceFilter{Unrestricted: true})
	if err != nil {
		t.Fatalf("list candidates failed: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != order.ID {
		t.Fatalf("order should be a profit candidate, got %+v", candidates)
	}

	affected, err := repo.UpdateDropshipperProfit(ctx, order.ID, decimal.NewFromInt(60), time.Now())
	if err != nil || affected != 1 {
		t.Fatalf("first update want 1 row got %d err=%v", affected, err)
	}
	affected, err = repo.UpdateDropshipperProfit(ctx, order.ID, decimal.NewFromInt(70), time.Now())
	if err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second update must not overwrite a positive profit, got %d rows", affected)
	}

	stored, err := repo.GetByID(ctx, order.ID)
	if err != nil || stored == nil {
		t.Fatalf("get order failed: %v", err)
	}
	if !stored.DropshipperProfitAmount.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("profit want 60 got %s", stored.DropshipperProfitAmount.String())
	}
	if stored.ProfitReconciledAt == nil {
		t.Fatalf("profit_reconciled_at should be set")
	}
	candidates, _ = repo.ListProfitCandidates(ctx, WorkspaceFilter{Unrestricted: true})
	if len(candidates) != 0 {
		t.Fatalf("reconciled order should no longer be a candidate")
	}
}

func TestFinanceListAndTotals(t *testing.T) {
	db := openRepositoryTestDB(t, "order_finance")
	repo := NewOrderRepository(db)
	ctx := context.Background()
	createTestOrder(t, db, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusDelivered, DropshipperProfitAmount: models.NewMoney("10.50"), DropshipperProfitIsPaid: true})
	createTestOrder(t, db, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusDelivered, DropshipperProfitAmount: models.NewMoney("4.25")})
	createTestOrder(t, db, models.Order{CreatedBy: 1, ShipmentStatus: constants.ShipmentStatusPending, DropshipperProfitAmount: models.NewMoney("99")})
	createTestOrder(t, db, models.Order{CreatedBy: 2, ShipmentStatus: constants.ShipmentStatusDelivered, DropshipperProfitAmount: models.NewMoney("7")})

	filter := FinanceOrderFilter{Page: 1, PageSize: 1, Workspace: WorkspaceFilter{CreatorIDs: []uint{1}}}
	rows, total, err := repo.ListFinance(ctx, filter)
	if err != nil {
		t.Fatalf("list finance failed: %v", err)
	}
	if total != 2 || len(rows) != 1 {
		t.Fatalf("finance want total 2 and one row per page, got total=%d rows=%d", total, len(rows))
	}

	totals, err := repo.SumFinance(ctx, filter)
	if err != nil {
		t.Fatalf("sum finance failed: %v", err)
	}
	if !totals.TotalAmount.Equal(decimal.RequireFromString("14.75")) {
		t.Fatalf("total amount want 14.75 got %s", totals.TotalAmount)
	}
	if !totals.PaidAmount.Equal(decimal.RequireFromString("10.5")) || !totals.UnpaidAmount.Equal(decimal.RequireFromString("4.25")) {
		t.Fatalf("paid/unpaid want 10.5/4.25 got %s/%s", totals.PaidAmount, totals.UnpaidAmount)
	}

	paid := false
	filter.IsPaid = &paid
	_, total, err = repo.ListFinance(ctx, filter)
	if err != nil || total != 1 {
		t.Fatalf("unpaid filter want 1 got %d err=%v", total, err)
	}
}
